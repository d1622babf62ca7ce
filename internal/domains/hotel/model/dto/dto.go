package dto

import (
	"hotelops/internal/domains/hotel/model"
	"hotelops/shared"
	gDto "hotelops/shared/dto"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ratingPrecision = 2

type CreateHotelRequest struct {
	Name        string                `json:"name"        validate:"required,max=150"`
	Address     string                `json:"address"     validate:"omitempty,max=255"`
	City        string                `json:"city"        validate:"omitempty,max=100"`
	Country     string                `json:"country"     validate:"omitempty,max=100"`
	Description string                `json:"description" validate:"omitempty"`
	Phone       string                `json:"phone"       validate:"omitempty,phone"`
	Email       string                `json:"email"       validate:"omitempty,email"`
	Rating      decimal.Decimal       `json:"rating"      validate:"gte=0,lte=5"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

func (c *CreateHotelRequest) ToModel(user string, imageURL string) model.Hotel {
	return model.Hotel{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Address:     c.Address,
		City:        c.City,
		Country:     c.Country,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		Rating:      c.Rating.Round(ratingPrecision),
		Image:       imageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateHotelRequest struct {
	Name        string                `db:"name"        json:"name"        validate:"omitempty,max=150"`
	Address     string                `db:"address"     json:"address"     validate:"omitempty,max=255"`
	City        string                `db:"city"        json:"city"        validate:"omitempty,max=100"`
	Country     string                `db:"country"     json:"country"     validate:"omitempty,max=100"`
	Description string                `db:"description" json:"description" validate:"omitempty"`
	Phone       string                `db:"phone"       json:"phone"       validate:"omitempty,phone"`
	Email       string                `db:"email"       json:"email"       validate:"omitempty,email"`
	Rating      *decimal.Decimal      `db:"rating"      json:"rating"      validate:"omitempty,gte=0,lte=5"`
	Image       *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile   multipart.File        `json:"-"`
}

type HotelResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Rating      string `json:"rating"`
	Image       string `json:"image"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.Name = model.Name
	r.Address = model.Address
	r.City = model.City
	r.Country = model.Country
	r.Description = model.Description
	r.Phone = model.Phone
	r.Email = model.Email
	r.Rating = model.Rating.StringFixed(ratingPrecision)
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}
