package dto

import (
	"hotelops/internal/domains/inquiry/model"
	"hotelops/shared"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"

	"github.com/google/uuid"
)

type CreateInquiryRequest struct {
	Name             string       `json:"name"              validate:"required,max=150"`
	PhoneNumber      string       `json:"phone_number"      validate:"required,phone"`
	Message          string       `json:"message"           validate:"required"`
	MessageEnglish   string       `json:"message_english"`
	MessageAmharic   string       `json:"message_amharic"`
	OriginalLanguage string       `json:"original_language" validate:"omitempty,max=20"`
	Status           model.Status `json:"status"            validate:"omitempty,oneof=received addressed"`
	AIAnalysis       string       `json:"ai_analysis"`
	Notes            string       `json:"notes"`
}

// Translated reports whether the caller already supplied both translations.
func (r *CreateInquiryRequest) Translated() bool {
	return r.MessageEnglish != "" && r.MessageAmharic != ""
}

func (r *CreateInquiryRequest) ToModel(user string) model.Inquiry {
	status := r.Status
	if status == "" {
		status = model.StatusReceived
	}

	language := r.OriginalLanguage
	if language == "" {
		language = model.LanguageUnknown
	}

	now := timezone.Now()

	mod := model.Inquiry{
		ID:               uuid.NewString(),
		Name:             r.Name,
		PhoneNumber:      r.PhoneNumber,
		Message:          r.Message,
		MessageEnglish:   r.MessageEnglish,
		MessageAmharic:   r.MessageAmharic,
		OriginalLanguage: language,
		Status:           status,
		AIAnalysis:       r.AIAnalysis,
		Notes:            r.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if status == model.StatusAddressed {
		mod.AddressedAt = &now
	}

	return mod
}

type UpdateInquiryRequest struct {
	Status *model.Status `json:"status,omitempty" validate:"omitempty,oneof=received addressed"`
	Notes  *string       `json:"notes,omitempty"`
}

func (r UpdateInquiryRequest) Empty() bool {
	return r == UpdateInquiryRequest{}
}

// Apply copies the set fields onto mod and returns the matching column values.
func (r UpdateInquiryRequest) Apply(mod *model.Inquiry) map[string]any {
	fields := map[string]any{}

	if r.Status != nil {
		mod.Status = *r.Status
		fields[model.FieldStatus] = *r.Status
	}

	if r.Notes != nil {
		mod.Notes = *r.Notes
		fields[model.FieldNotes] = *r.Notes
	}

	return fields
}

type ListInquiryRequest struct {
	Status string
}

func (r ListInquiryRequest) Filter() gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if r.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    r.Status,
			Table:    model.TableName,
		})
	}

	return group
}

// Sorts puts status first when filtering, newest first otherwise.
func (r ListInquiryRequest) Sorts() []gDto.Sort {
	newest := gDto.Sort{Field: constant.FieldCreatedAt, Dir: gDto.SortDirDesc}

	if r.Status == "" {
		return []gDto.Sort{newest}
	}

	return []gDto.Sort{{Field: model.FieldStatus, Dir: gDto.SortDirAsc}, newest}
}

type InquiryResponse struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	PhoneNumber      string       `json:"phone_number"`
	Message          string       `json:"message"`
	MessageEnglish   string       `json:"message_english"`
	MessageAmharic   string       `json:"message_amharic"`
	OriginalLanguage string       `json:"original_language"`
	Status           model.Status `json:"status"`
	AIAnalysis       string       `json:"ai_analysis"`
	Notes            string       `json:"notes"`
	AddressedAt      *string      `json:"addressed_at"`
	gDto.Metadata
}

func (r *InquiryResponse) FromModel(mod model.Inquiry) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.PhoneNumber = mod.PhoneNumber
	r.Message = mod.Message
	r.MessageEnglish = mod.MessageEnglish
	r.MessageAmharic = mod.MessageAmharic
	r.OriginalLanguage = mod.OriginalLanguage
	r.Status = mod.Status
	r.AIAnalysis = mod.AIAnalysis
	r.Notes = mod.Notes
	r.AddressedAt = nil

	if mod.AddressedAt != nil {
		addressedAt := timezone.Format(*mod.AddressedAt, constant.DateFormat)
		r.AddressedAt = &addressedAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetInquiriesResponse struct {
	Inquiries []InquiryResponse `json:"inquiries"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetInquiriesResponse) FromModels(models []model.Inquiry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Inquiries = make([]InquiryResponse, len(models))
	for i, mod := range models {
		r.Inquiries[i].FromModel(mod)
	}
}
