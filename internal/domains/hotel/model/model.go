package model

import (
	"hotelops/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID          = "id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldCountry     = "country"
	FieldDescription = "description"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldRating      = "rating"
	FieldImage       = "image"
)

type Hotel struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Address     string          `db:"address"`
	City        string          `db:"city"`
	Country     string          `db:"country"`
	Description string          `db:"description"`
	Phone       string          `db:"phone"`
	Email       string          `db:"email"`
	Rating      decimal.Decimal `db:"rating"`
	Image       string          `db:"image"`
	model.Metadata
}
