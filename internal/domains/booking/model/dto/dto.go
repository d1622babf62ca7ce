package dto

import (
	"hotelops/internal/domains/booking/model"
	orderModel "hotelops/internal/domains/order/model"
	orderDto "hotelops/internal/domains/order/model/dto"
	"hotelops/shared"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const pricePrecision = 2

type CreateBookingRequest struct {
	UserID          string           `json:"user_id"          validate:"omitempty,uuid"`
	RoomID          string           `json:"room_id"          validate:"required,uuid"`
	CheckInDate     time.Time        `json:"check_in_date"    validate:"required"`
	CheckOutDate    time.Time        `json:"check_out_date"   validate:"required"`
	TotalPrice      *decimal.Decimal `json:"total_price"      validate:"omitempty,gte=0"`
	SpecialRequests string           `json:"special_requests" validate:"omitempty,max=2000"`
}

// ToModel builds a walk-in booking: it starts checked in and room_charges mirrors the total.
func (c *CreateBookingRequest) ToModel(user, guest string, total decimal.Decimal) model.Booking {
	now := timezone.Now()
	total = total.Round(pricePrecision)

	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          guest,
		RoomID:          c.RoomID,
		CheckInDate:     c.CheckInDate,
		CheckOutDate:    c.CheckOutDate,
		Status:          model.StatusCheckedIn,
		TotalPrice:      total,
		RoomCharges:     total,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateBookingRequest is the only patch a booking accepts. Status moves through the transition endpoints.
type UpdateBookingRequest struct {
	CheckInDate     *time.Time       `json:"check_in_date"    validate:"omitempty"`
	CheckOutDate    *time.Time       `json:"check_out_date"   validate:"omitempty"`
	SpecialRequests *string          `json:"special_requests" validate:"omitempty,max=2000"`
	TotalPrice      *decimal.Decimal `json:"total_price"      validate:"omitempty,gte=0"`
}

func (u *UpdateBookingRequest) ChangesDates() bool {
	return u.CheckInDate != nil || u.CheckOutDate != nil
}

type BookingResponse struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"user_id"`
	GuestName       string                   `json:"guest_name,omitempty"`
	RoomID          string                   `json:"room_id"`
	RoomNumber      string                   `json:"room_number,omitempty"`
	HotelID         string                   `json:"hotel_id,omitempty"`
	CheckInDate     string                   `json:"check_in_date"`
	CheckOutDate    string                   `json:"check_out_date"`
	Status          model.Status             `json:"status"`
	TotalPrice      string                   `json:"total_price"`
	RoomCharges     string                   `json:"room_charges"`
	SpecialRequests string                   `json:"special_requests"`
	Orders          []orderDto.OrderResponse `json:"orders,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.GuestName = model.GuestName
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.HotelID = model.HotelID
	r.CheckInDate = timezone.Format(model.CheckInDate, constant.DateFormat)
	r.CheckOutDate = timezone.Format(model.CheckOutDate, constant.DateFormat)
	r.Status = model.Status
	r.TotalPrice = model.TotalPrice.StringFixed(pricePrecision)
	r.RoomCharges = model.RoomCharges.StringFixed(pricePrecision)
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) WithOrders(orders []orderModel.Order) {
	r.Orders = make([]orderDto.OrderResponse, len(orders))
	for i, order := range orders {
		r.Orders[i].FromModel(order)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// CheckOutResponse is the final bill: total_price = room_charges + orders_total.
type CheckOutResponse struct {
	Booking     BookingResponse `json:"booking"`
	RoomCharges string          `json:"room_charges"`
	OrdersTotal string          `json:"orders_total"`
	TotalPrice  string          `json:"total_price"`
}

func (r *CheckOutResponse) FromModel(booking model.Booking, ordersTotal decimal.Decimal) {
	r.Booking.FromModel(booking)
	r.RoomCharges = booking.RoomCharges.StringFixed(pricePrecision)
	r.OrdersTotal = ordersTotal.StringFixed(pricePrecision)
	r.TotalPrice = booking.TotalPrice.StringFixed(pricePrecision)
}

// Event is published to Kafka after every committed booking change.
type Event struct {
	BookingID  string          `json:"booking_id"`
	UserID     string          `json:"user_id"`
	RoomID     string          `json:"room_id"`
	From       model.Status    `json:"from,omitempty"`
	Status     model.Status    `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ActorID    string          `json:"actor_id"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(booking model.Booking, from model.Status, actor string) Event {
	return Event{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		RoomID:     booking.RoomID,
		From:       from,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
		ActorID:    actor,
		OccurredAt: timezone.Now(),
	}
}
