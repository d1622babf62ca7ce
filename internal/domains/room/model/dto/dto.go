package dto

import (
	"hotelops/internal/domains/room/model"
	"hotelops/shared"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const pricePrecision = 2

type CreateRoomRequest struct {
	HotelID       string                `json:"hotel_id"        validate:"required,uuid"`
	RoomNumber    string                `json:"room_number"     validate:"required,max=20"`
	Type          model.Type            `json:"type"            validate:"required,oneof=standard deluxe suite presidential"`
	Capacity      int                   `json:"capacity"        validate:"required,gte=1"`
	Beds          *int                  `json:"beds"            validate:"omitempty,gte=1"`
	Bathrooms     *int                  `json:"bathrooms"       validate:"omitempty,gte=1"`
	PricePerNight decimal.Decimal       `json:"price_per_night" validate:"gt=0"`
	Floor         int                   `json:"floor"           validate:"omitempty,gte=0"`
	Description   string                `json:"description"     validate:"omitempty"`
	Image         *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	beds, bathrooms := 1, 1
	if c.Beds != nil {
		beds = *c.Beds
	}

	if c.Bathrooms != nil {
		bathrooms = *c.Bathrooms
	}

	return model.Room{
		ID:            uuid.NewString(),
		HotelID:       c.HotelID,
		RoomNumber:    c.RoomNumber,
		Type:          c.Type,
		Capacity:      c.Capacity,
		Beds:          beds,
		Bathrooms:     bathrooms,
		PricePerNight: c.PricePerNight.Round(pricePrecision),
		Status:        model.StatusAvailable,
		Floor:         c.Floor,
		Description:   c.Description,
		Image:         imageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest never touches status; use UpdateRoomStatusRequest for that.
type UpdateRoomRequest struct {
	RoomNumber    string                `db:"room_number"     json:"room_number"     validate:"omitempty,max=20"`
	Type          model.Type            `db:"type"            json:"type"            validate:"omitempty,oneof=standard deluxe suite presidential"`
	Capacity      *int                  `db:"capacity"        json:"capacity"        validate:"omitempty,gte=1"`
	Beds          *int                  `db:"beds"            json:"beds"            validate:"omitempty,gte=1"`
	Bathrooms     *int                  `db:"bathrooms"       json:"bathrooms"       validate:"omitempty,gte=1"`
	PricePerNight *decimal.Decimal      `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Floor         *int                  `db:"floor"           json:"floor"           validate:"omitempty,gte=0"`
	Description   string                `db:"description"     json:"description"     validate:"omitempty"`
	Image         *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
}

type UpdateRoomStatusRequest struct {
	Status model.Status `json:"status" validate:"required,oneof=available occupied maintenance reserved"`
}

// AvailableRoomsRequest is bound from the query string of GET /rooms/available.
type AvailableRoomsRequest struct {
	HotelID   string     `json:"hotel_id"   validate:"omitempty,uuid"`
	CheckIn   *time.Time `json:"check_in"   validate:"required_with=CheckOut"`
	CheckOut  *time.Time `json:"check_out"  validate:"required_with=CheckIn"`
	Beds      *int       `json:"beds"       validate:"omitempty,gte=1"`
	Bathrooms *int       `json:"bathrooms"  validate:"omitempty,gte=1"`
}

// ToQuery checks the stay window and maps the request onto the repository query.
func (r *AvailableRoomsRequest) ToQuery() (model.AvailabilityQuery, error) {
	if (r.CheckIn == nil) != (r.CheckOut == nil) {
		return model.AvailabilityQuery{}, failure.BadRequestFromString("check_in and check_out must be provided together") // nolint:wrapcheck
	}

	if r.CheckIn != nil && !r.CheckIn.Before(*r.CheckOut) {
		return model.AvailabilityQuery{}, failure.BadRequestFromString("check_in must be before check_out") // nolint:wrapcheck
	}

	return model.AvailabilityQuery{
		HotelID:   r.HotelID,
		CheckIn:   r.CheckIn,
		CheckOut:  r.CheckOut,
		Beds:      r.Beds,
		Bathrooms: r.Bathrooms,
	}, nil
}

type RoomResponse struct {
	ID            string       `json:"id"`
	HotelID       string       `json:"hotel_id"`
	HotelName     string       `json:"hotel_name"`
	RoomNumber    string       `json:"room_number"`
	Type          model.Type   `json:"type"`
	Capacity      int          `json:"capacity"`
	Beds          int          `json:"beds"`
	Bathrooms     int          `json:"bathrooms"`
	PricePerNight string       `json:"price_per_night"`
	Status        model.Status `json:"status"`
	Floor         int          `json:"floor"`
	Description   string       `json:"description"`
	Image         string       `json:"image"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.HotelName = model.HotelName
	r.RoomNumber = model.RoomNumber
	r.Type = model.Type
	r.Capacity = model.Capacity
	r.Beds = model.Beds
	r.Bathrooms = model.Bathrooms
	r.PricePerNight = model.PricePerNight.StringFixed(pricePrecision)
	r.Status = model.Status
	r.Floor = model.Floor
	r.Description = model.Description
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailableRoomsResponse struct {
	Rooms      []RoomResponse `json:"rooms"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

func (r *AvailableRoomsResponse) FromModels(models []model.Room, total, page, limit int) {
	r.Total = total
	r.Page = page
	r.TotalPages = shared.CalculateTotalPage(total, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
