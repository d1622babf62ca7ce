package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"hotelops/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "orders"
	EntityName = "order"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldRoomID      = "room_id"
	FieldOrderType   = "order_type"
	FieldItems       = "items"
	FieldTotalPrice  = "total_price"
	FieldStatus      = "status"
	FieldNotes       = "notes"
	FieldOrderedAt   = "ordered_at"
	FieldDeliveredAt = "delivered_at"
)

type Type string

const (
	TypeFood     Type = "food"
	TypeBeverage Type = "beverage"
	TypeCombo    Type = "combo"
	TypeOther    Type = "other"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var errItemsType = errors.New("unsupported items column type")

type Item struct {
	Name     string          `json:"name"     validate:"required,max=150"`
	Quantity int             `json:"quantity" validate:"required,gte=1"`
	Price    decimal.Decimal `json:"price"    validate:"gte=0"`
	Notes    string          `json:"notes"    validate:"omitempty"`
}

// Items is stored as a JSONB array.
type Items []Item

func (i Items) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}

	b, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal items: %w", err)
	}

	return b, nil
}

func (i *Items) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*i = Items{}

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", errItemsType, src)
	}

	if err := json.Unmarshal(raw, i); err != nil {
		return fmt.Errorf("failed to unmarshal items: %w", err)
	}

	return nil
}

// Total sums quantity x price over all items.
func (i Items) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}

type Order struct {
	ID          string          `db:"id"`
	BookingID   string          `db:"booking_id"`
	RoomID      string          `db:"room_id"`
	RoomNumber  string          `db:"room_number" table:"rooms" column:"room_number"`
	OrderType   Type            `db:"order_type"`
	Items       Items           `db:"items"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	Status      Status          `db:"status"`
	Notes       string          `db:"notes"`
	OrderedAt   time.Time       `db:"ordered_at"`
	DeliveredAt *time.Time      `db:"delivered_at"`
	model.Metadata
}

func (Order) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = orders.room_id"
}
