package model

import (
	"hotelops/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldUserID          = "user_id"
	FieldRoomID          = "room_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldStatus          = "status"
	FieldTotalPrice      = "total_price"
	FieldRoomCharges     = "room_charges"
	FieldSpecialRequests = "special_requests"
)

type Booking struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	RoomID          string          `db:"room_id"`
	RoomNumber      string          `db:"room_number" table:"rooms" column:"room_number"`
	HotelID         string          `db:"hotel_id"    table:"rooms" column:"hotel_id"`
	GuestName       string          `db:"guest_name"  table:"users" column:"full_name"`
	CheckInDate     time.Time       `db:"check_in_date"`
	CheckOutDate    time.Time       `db:"check_out_date"`
	Status          Status          `db:"status"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	RoomCharges     decimal.Decimal `db:"room_charges"`
	SpecialRequests string          `db:"special_requests"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id LEFT JOIN users ON users.id = bookings.user_id"
}

// Nights counts started 24h periods, so a 25 hour stay is two nights.
func Nights(checkIn, checkOut time.Time) int64 {
	d := checkOut.Sub(checkIn)
	nights := int64(d / (24 * time.Hour))

	if d%(24*time.Hour) != 0 {
		nights++
	}

	return nights
}
