package model

import (
	"hotelops/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldHotelID       = "hotel_id"
	FieldRoomNumber    = "room_number"
	FieldType          = "type"
	FieldCapacity      = "capacity"
	FieldBeds          = "beds"
	FieldBathrooms     = "bathrooms"
	FieldPricePerNight = "price_per_night"
	FieldStatus        = "status"
	FieldFloor         = "floor"
	FieldDescription   = "description"
	FieldImage         = "image"
	FieldHotelName     = "hotel_name"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
	StatusReserved    Status = "reserved"
)

type Type string

const (
	TypeStandard     Type = "standard"
	TypeDeluxe       Type = "deluxe"
	TypeSuite        Type = "suite"
	TypePresidential Type = "presidential"
)

type Room struct {
	ID            string          `db:"id"`
	HotelID       string          `db:"hotel_id"`
	HotelName     string          `db:"hotel_name" table:"hotels" column:"name"`
	RoomNumber    string          `db:"room_number"`
	Type          Type            `db:"type"`
	Capacity      int             `db:"capacity"`
	Beds          int             `db:"beds"`
	Bathrooms     int             `db:"bathrooms"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	Status        Status          `db:"status"`
	Floor         int             `db:"floor"`
	Description   string          `db:"description"`
	Image         string          `db:"image"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "LEFT JOIN hotels ON hotels.id = rooms.hotel_id"
}

// AvailabilityQuery narrows the available room search. CheckIn and CheckOut are either both set or both nil.
type AvailabilityQuery struct {
	HotelID   string
	CheckIn   *time.Time
	CheckOut  *time.Time
	Beds      *int
	Bathrooms *int
}
