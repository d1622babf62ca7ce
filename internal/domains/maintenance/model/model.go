package model

import (
	"hotelops/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "maintenance_requests"
	EntityName = "maintenance"

	FieldID                     = "id"
	FieldHotelID                = "hotel_id"
	FieldRoomID                 = "room_id"
	FieldBookingID              = "booking_id"
	FieldUserID                 = "user_id"
	FieldDescription            = "description"
	FieldDescriptionAmharic     = "description_amharic"
	FieldCategory               = "category"
	FieldPriority               = "priority"
	FieldStatus                 = "status"
	FieldPhoneNumber            = "phone_number"
	FieldOriginalMessage        = "original_message"
	FieldOriginalMessageAmharic = "original_message_amharic"
	FieldAIAnalysis             = "ai_analysis"
	FieldResolvedAt             = "resolved_at"
)

type Category string

const (
	CategoryHVAC       Category = "hvac"
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryFurniture  Category = "furniture"
	CategoryCleaning   Category = "cleaning"
	CategoryAppliances Category = "appliances"
	CategoryOther      Category = "other"
)

var categories = []Category{
	CategoryHVAC, CategoryPlumbing, CategoryElectrical, CategoryFurniture,
	CategoryCleaning, CategoryAppliances, CategoryOther,
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// Priority sorts by declaration order in the database enum, so DESC puts urgent first.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	return slices.Contains([]Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}, p)
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

type Maintenance struct {
	ID                     string     `db:"id"`
	HotelID                string     `db:"hotel_id"`
	HotelName              string     `db:"hotel_name"  table:"hotels" column:"name"`
	RoomID                 string     `db:"room_id"`
	RoomNumber             string     `db:"room_number" table:"rooms"  column:"room_number"`
	BookingID              *string    `db:"booking_id"`
	UserID                 *string    `db:"user_id"`
	Description            string     `db:"description"`
	DescriptionAmharic     string     `db:"description_amharic"`
	Category               Category   `db:"category"`
	Priority               Priority   `db:"priority"`
	Status                 Status     `db:"status"`
	PhoneNumber            string     `db:"phone_number"`
	OriginalMessage        string     `db:"original_message"`
	OriginalMessageAmharic string     `db:"original_message_amharic"`
	AIAnalysis             string     `db:"ai_analysis"`
	ResolvedAt             *time.Time `db:"resolved_at"`
	model.Metadata
}

func (Maintenance) GetJoinQuery() string {
	return "LEFT JOIN hotels ON hotels.id = maintenance_requests.hotel_id LEFT JOIN rooms ON rooms.id = maintenance_requests.room_id"
}
