package model

import (
	"hotelops/shared/model"
	"time"
)

const (
	TableName  = "inquiries"
	EntityName = "inquiry"

	FieldID               = "id"
	FieldName             = "name"
	FieldPhoneNumber      = "phone_number"
	FieldMessage          = "message"
	FieldMessageEnglish   = "message_english"
	FieldMessageAmharic   = "message_amharic"
	FieldOriginalLanguage = "original_language"
	FieldStatus           = "status"
	FieldAIAnalysis       = "ai_analysis"
	FieldNotes            = "notes"
	FieldAddressedAt      = "addressed_at"

	LanguageUnknown = "unknown"
)

type Status string

const (
	StatusReceived  Status = "received"
	StatusAddressed Status = "addressed"
)

type Inquiry struct {
	ID               string     `db:"id"`
	Name             string     `db:"name"`
	PhoneNumber      string     `db:"phone_number"`
	Message          string     `db:"message"`
	MessageEnglish   string     `db:"message_english"`
	MessageAmharic   string     `db:"message_amharic"`
	OriginalLanguage string     `db:"original_language"`
	Status           Status     `db:"status"`
	AIAnalysis       string     `db:"ai_analysis"`
	Notes            string     `db:"notes"`
	AddressedAt      *time.Time `db:"addressed_at"`
	model.Metadata
}
