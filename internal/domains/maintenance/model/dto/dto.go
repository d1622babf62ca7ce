package dto

import (
	"hotelops/internal/domains/maintenance/model"
	"hotelops/shared"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"

	"github.com/google/uuid"
)

type CreateMaintenanceRequest struct {
	HotelID                string         `json:"hotel_id"                 validate:"required,uuid"`
	RoomID                 string         `json:"room_id"                  validate:"required,uuid"`
	BookingID              *string        `json:"booking_id"               validate:"omitempty,uuid"`
	UserID                 *string        `json:"user_id"                  validate:"omitempty,uuid"`
	Description            string         `json:"description"              validate:"required"`
	DescriptionAmharic     string         `json:"description_amharic"`
	Category               model.Category `json:"category"                 validate:"omitempty,oneof=hvac plumbing electrical furniture cleaning appliances other"`
	Priority               model.Priority `json:"priority"                 validate:"omitempty,oneof=low medium high urgent"`
	Status                 model.Status   `json:"status"                   validate:"omitempty,oneof=pending in_progress resolved closed"`
	PhoneNumber            string         `json:"phone_number"             validate:"omitempty,phone"`
	OriginalMessage        string         `json:"original_message"`
	OriginalMessageAmharic string         `json:"original_message_amharic"`
	AIAnalysis             string         `json:"ai_analysis"`
}

func (r *CreateMaintenanceRequest) ToModel(user string) model.Maintenance {
	category := r.Category
	if category == "" {
		category = model.CategoryOther
	}

	priority := r.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	status := r.Status
	if status == "" {
		status = model.StatusPending
	}

	now := timezone.Now()

	mod := model.Maintenance{
		ID:                     uuid.NewString(),
		HotelID:                r.HotelID,
		RoomID:                 r.RoomID,
		BookingID:              r.BookingID,
		UserID:                 r.UserID,
		Description:            r.Description,
		DescriptionAmharic:     r.DescriptionAmharic,
		Category:               category,
		Priority:               priority,
		Status:                 status,
		PhoneNumber:            r.PhoneNumber,
		OriginalMessage:        r.OriginalMessage,
		OriginalMessageAmharic: r.OriginalMessageAmharic,
		AIAnalysis:             r.AIAnalysis,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if status == model.StatusResolved {
		mod.ResolvedAt = &now
	}

	return mod
}

type UpdateMaintenanceRequest struct {
	Description        *string         `json:"description,omitempty"`
	DescriptionAmharic *string         `json:"description_amharic,omitempty"`
	Category           *model.Category `json:"category,omitempty" validate:"omitempty,oneof=hvac plumbing electrical furniture cleaning appliances other"`
	Priority           *model.Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Status             *model.Status   `json:"status,omitempty"   validate:"omitempty,oneof=pending in_progress resolved closed"`
}

func (r UpdateMaintenanceRequest) Empty() bool {
	return r == UpdateMaintenanceRequest{}
}

// Apply copies the set fields onto mod and returns the matching column values.
func (r UpdateMaintenanceRequest) Apply(mod *model.Maintenance) map[string]any {
	fields := map[string]any{}

	if r.Description != nil {
		mod.Description = *r.Description
		fields[model.FieldDescription] = *r.Description
	}

	if r.DescriptionAmharic != nil {
		mod.DescriptionAmharic = *r.DescriptionAmharic
		fields[model.FieldDescriptionAmharic] = *r.DescriptionAmharic
	}

	if r.Category != nil {
		mod.Category = *r.Category
		fields[model.FieldCategory] = *r.Category
	}

	if r.Priority != nil {
		mod.Priority = *r.Priority
		fields[model.FieldPriority] = *r.Priority
	}

	if r.Status != nil {
		mod.Status = *r.Status
		fields[model.FieldStatus] = *r.Status
	}

	return fields
}

// ListMaintenanceRequest carries the list filters. Triage ordering applies when any of
// priority, category or status is set.
type ListMaintenanceRequest struct {
	HotelID  string
	Priority string
	Category string
	Status   string
}

func (r ListMaintenanceRequest) Triage() bool {
	return r.Priority != "" || r.Category != "" || r.Status != ""
}

func (r ListMaintenanceRequest) Filter() gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, f := range [][2]string{
		{model.FieldHotelID, r.HotelID},
		{model.FieldPriority, r.Priority},
		{model.FieldCategory, r.Category},
		{model.FieldStatus, r.Status},
	} {
		if f[1] == "" {
			continue
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    f[0],
			Operator: gDto.FilterOperatorEq,
			Value:    f[1],
			Table:    model.TableName,
		})
	}

	return group
}

// Sorts returns the ordering for the list: status ASC, priority DESC, created_at DESC when
// triaging, newest first otherwise.
func (r ListMaintenanceRequest) Sorts() []gDto.Sort {
	newest := gDto.Sort{Field: constant.FieldCreatedAt, Dir: gDto.SortDirDesc}

	if !r.Triage() {
		return []gDto.Sort{newest}
	}

	return []gDto.Sort{
		{Field: model.FieldStatus, Dir: gDto.SortDirAsc},
		{Field: model.FieldPriority, Dir: gDto.SortDirDesc},
		newest,
	}
}

type MaintenanceResponse struct {
	ID                     string         `json:"id"`
	HotelID                string         `json:"hotel_id"`
	HotelName              string         `json:"hotel_name,omitempty"`
	RoomID                 string         `json:"room_id"`
	RoomNumber             string         `json:"room_number,omitempty"`
	BookingID              *string        `json:"booking_id"`
	UserID                 *string        `json:"user_id"`
	Description            string         `json:"description"`
	DescriptionAmharic     string         `json:"description_amharic"`
	Category               model.Category `json:"category"`
	Priority               model.Priority `json:"priority"`
	Status                 model.Status   `json:"status"`
	PhoneNumber            string         `json:"phone_number"`
	OriginalMessage        string         `json:"original_message"`
	OriginalMessageAmharic string         `json:"original_message_amharic"`
	AIAnalysis             string         `json:"ai_analysis"`
	ResolvedAt             *string        `json:"resolved_at"`
	gDto.Metadata
}

func (r *MaintenanceResponse) FromModel(mod model.Maintenance) {
	r.ID = mod.ID
	r.HotelID = mod.HotelID
	r.HotelName = mod.HotelName
	r.RoomID = mod.RoomID
	r.RoomNumber = mod.RoomNumber
	r.BookingID = mod.BookingID
	r.UserID = mod.UserID
	r.Description = mod.Description
	r.DescriptionAmharic = mod.DescriptionAmharic
	r.Category = mod.Category
	r.Priority = mod.Priority
	r.Status = mod.Status
	r.PhoneNumber = mod.PhoneNumber
	r.OriginalMessage = mod.OriginalMessage
	r.OriginalMessageAmharic = mod.OriginalMessageAmharic
	r.AIAnalysis = mod.AIAnalysis
	r.ResolvedAt = nil

	if mod.ResolvedAt != nil {
		resolvedAt := timezone.Format(*mod.ResolvedAt, constant.DateFormat)
		r.ResolvedAt = &resolvedAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetMaintenanceResponse struct {
	Requests  []MaintenanceResponse `json:"requests"`
	TotalPage int                   `json:"total_page"`
	TotalData int                   `json:"total_data"`
}

func (r *GetMaintenanceResponse) FromModels(models []model.Maintenance, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]MaintenanceResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}
