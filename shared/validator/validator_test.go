package validator_test

import (
	"hotelops/shared/failure"
	"hotelops/shared/validator"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guestRequest struct {
	FullName string           `json:"full_name" validate:"required"`
	Email    string           `json:"email"     validate:"required,email"`
	Phone    string           `json:"phone"     validate:"omitempty,phone"`
	Level    string           `json:"level"     validate:"oneof=admin staff guest"`
	Deposit  decimal.Decimal  `json:"deposit"   validate:"gte=0"`
	Tip      *decimal.Decimal `json:"tip"       validate:"omitempty,gt=0"`
}

func validGuest() guestRequest {
	return guestRequest{
		FullName: "Abebe Kebede",
		Email:    "abebe@example.com",
		Phone:    "+251911223344",
		Level:    "guest",
		Deposit:  decimal.RequireFromString("100.00"),
	}
}

func TestValidateStruct(t *testing.T) {
	negative := decimal.RequireFromString("-1")

	tests := []struct {
		name    string
		mutate  func(*guestRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(*guestRequest) {},
		},
		{
			name:    "missing name",
			mutate:  func(g *guestRequest) { g.FullName = "" },
			wantErr: "full_name is required",
		},
		{
			name:    "invalid email",
			mutate:  func(g *guestRequest) { g.Email = "not-an-email" },
			wantErr: "email must be a valid email address",
		},
		{
			name:    "invalid phone",
			mutate:  func(g *guestRequest) { g.Phone = "12ab" },
			wantErr: "phone must be a valid phone number",
		},
		{
			name:    "unknown level",
			mutate:  func(g *guestRequest) { g.Level = "owner" },
			wantErr: "level must be one of admin staff guest",
		},
		{
			name:    "negative decimal",
			mutate:  func(g *guestRequest) { g.Deposit = negative },
			wantErr: "deposit must be greater than or equal to 0",
		},
		{
			name:    "non positive decimal pointer",
			mutate:  func(g *guestRequest) { zero := decimal.Zero; g.Tip = &zero },
			wantErr: "tip must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validGuest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("4b1d6a52-2a5e-4c36-9a39-3f1f8b4a6f11", "uuid"))
	assert.Error(t, validator.ValidateVar("room-1", "uuid"))
	assert.NoError(t, validator.ValidateVar(25, "gte=0,lte=100"))
	assert.Error(t, validator.ValidateVar(150, "gte=0,lte=100"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid json",
			body: `{"full_name":"Abebe","email":"abebe@example.com","level":"staff","deposit":"12.50"}`,
		},
		{
			name:    "decimal from number",
			body:    `{"full_name":"Abebe","email":"abebe@example.com","level":"staff","deposit":-3}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"full_name":}`,
			wantErr: true,
		},
		{
			name:    "empty object",
			body:    `{}`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req guestRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type roomPhoto struct {
	Image *multipart.FileHeader `json:"image" validate:"omitempty,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

func upload(contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return &multipart.FileHeader{Filename: "suite.png", Header: header, Size: size}
}

func TestValidateStruct_Upload(t *testing.T) {
	tests := []struct {
		name    string
		image   *multipart.FileHeader
		wantErr string
	}{
		{
			name: "no image",
		},
		{
			name:  "png within limit",
			image: upload("image/png", 512*1024),
		},
		{
			name:    "pdf rejected",
			image:   upload("application/pdf", 1024),
			wantErr: "image must be one of the following types: image/png image/jpeg",
		},
		{
			name:    "too large",
			image:   upload("image/jpeg", 2*1024*1024),
			wantErr: "image must be less than 1 MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&roomPhoto{Image: tt.image})

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

type passwordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,nefield=OldPassword"`
	Nights      int    `json:"nights"       validate:"min=1"`
}

func TestValidateStruct_Messages(t *testing.T) {
	tests := []struct {
		name    string
		req     passwordChange
		wantErr string
	}{
		{
			name:    "short string counts characters",
			req:     passwordChange{OldPassword: "old-secret", NewPassword: "short", Nights: 1},
			wantErr: "new_password must be at least 8 characters",
		},
		{
			name:    "numbers keep the numeric wording",
			req:     passwordChange{OldPassword: "old-secret", NewPassword: "brand-new-secret", Nights: 0},
			wantErr: "nights must be greater than or equal to 1",
		},
		{
			name:    "unchanged password",
			req:     passwordChange{OldPassword: "same-secret", NewPassword: "same-secret", Nights: 1},
			wantErr: "new_password must differ from OldPassword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
