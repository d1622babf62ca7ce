package dto

import (
	"hotelops/internal/domains/order/model"
	"hotelops/shared"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const pricePrecision = 2

type CreateOrderRequest struct {
	BookingID  string           `json:"booking_id"  validate:"required,uuid"`
	RoomID     string           `json:"room_id"     validate:"required,uuid"`
	OrderType  model.Type       `json:"order_type"  validate:"omitempty,oneof=food beverage combo other"`
	Items      model.Items      `json:"items"       validate:"required,min=1,dive"`
	TotalPrice *decimal.Decimal `json:"total_price" validate:"omitempty,gte=0"`
	Notes      string           `json:"notes"       validate:"omitempty"`
}

// ToModel prices the order from its items unless the caller fixed a total.
func (c *CreateOrderRequest) ToModel(user string) model.Order {
	orderType := c.OrderType
	if orderType == "" {
		orderType = model.TypeFood
	}

	total := c.Items.Total()
	if c.TotalPrice != nil {
		total = *c.TotalPrice
	}

	now := timezone.Now()

	return model.Order{
		ID:         uuid.NewString(),
		BookingID:  c.BookingID,
		RoomID:     c.RoomID,
		OrderType:  orderType,
		Items:      c.Items,
		TotalPrice: total.Round(pricePrecision),
		Status:     model.StatusPending,
		Notes:      c.Notes,
		OrderedAt:  now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateOrderStatusRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

type ItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Notes    string `json:"notes,omitempty"`
}

type OrderResponse struct {
	ID          string         `json:"id"`
	BookingID   string         `json:"booking_id"`
	RoomID      string         `json:"room_id"`
	RoomNumber  string         `json:"room_number,omitempty"`
	OrderType   model.Type     `json:"order_type"`
	Items       []ItemResponse `json:"items"`
	TotalPrice  string         `json:"total_price"`
	Status      model.Status   `json:"status"`
	Notes       string         `json:"notes"`
	OrderedAt   string         `json:"ordered_at"`
	DeliveredAt *string        `json:"delivered_at"`
	gDto.Metadata
}

func (r *OrderResponse) FromModel(model model.Order) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.OrderType = model.OrderType
	r.TotalPrice = model.TotalPrice.StringFixed(pricePrecision)
	r.Status = model.Status
	r.Notes = model.Notes
	r.OrderedAt = timezone.Format(model.OrderedAt, constant.DateFormat)
	r.DeliveredAt = nil

	if model.DeliveredAt != nil {
		deliveredAt := timezone.Format(*model.DeliveredAt, constant.DateFormat)
		r.DeliveredAt = &deliveredAt
	}

	r.Items = make([]ItemResponse, len(model.Items))
	for i, item := range model.Items {
		r.Items[i] = ItemResponse{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(pricePrecision),
			Notes:    item.Notes,
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOrdersResponse) FromModels(models []model.Order, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Orders = make([]OrderResponse, len(models))
	for i, mod := range models {
		r.Orders[i].FromModel(mod)
	}
}
