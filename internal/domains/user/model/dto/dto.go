package dto

import (
	"hotelops/internal/domains/user/model"
	"hotelops/shared"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	gModel "hotelops/shared/model"
	"hotelops/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string  `json:"email"     validate:"required,email"`
	Password string  `json:"password"  validate:"required,min=8,max=72"`
	Level    string  `json:"level"     validate:"omitempty,oneof=admin staff guest"`
	FullName string  `json:"full_name" validate:"required,min=2,max=150"`
	Phone    *string `json:"phone"     validate:"omitempty,phone"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	level := r.Level
	if level == "" {
		level = constant.RoleGuest
	}

	now := timezone.Now()

	return model.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Level:    level,
		FullName: r.FullName,
		Phone:    r.Phone,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Level     string  `json:"level"`
	FullName  string  `json:"full_name"`
	Phone     *string `json:"phone,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Active = model.Active
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

// UpdateUserRequest is the admin patch. Passwords change through auth only.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"     db:"email"     validate:"omitempty,email"`
	Level    *string `json:"level,omitempty"     db:"level"     validate:"omitempty,oneof=admin staff guest"`
	FullName *string `json:"full_name,omitempty" db:"full_name" validate:"omitempty,min=2,max=150"`
	Phone    *string `json:"phone,omitempty"     db:"phone"     validate:"omitempty,phone"`
	Active   *bool   `json:"active,omitempty"    db:"active"`
}

// Fields flattens the set pointers into column values.
func (r UpdateUserRequest) Fields(username string) map[string]any {
	fields := map[string]any{}

	if r.Email != nil {
		fields[model.FieldEmail] = *r.Email
	}

	if r.Level != nil {
		fields[model.FieldLevel] = *r.Level
	}

	if r.FullName != nil {
		fields[model.FieldFullName] = *r.FullName
	}

	if r.Phone != nil {
		fields[model.FieldPhone] = *r.Phone
	}

	if r.Active != nil {
		fields[model.FieldActive] = *r.Active
	}

	if len(fields) == 0 {
		return fields
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = username

	return fields
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
