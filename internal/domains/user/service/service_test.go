package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotelops/config"
	"hotelops/infras/otel/mocks"
	userMocks "hotelops/internal/domains/user/mocks"
	"hotelops/internal/domains/user/model"
	"hotelops/internal/domains/user/model/dto"
	"hotelops/internal/domains/user/service"
	cacheMocks "hotelops/shared/cache/mocks"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/password"
	gRepo "hotelops/shared/repository"
)

func newService(t *testing.T) (service.User, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func adminCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
}

func TestUserService_Create(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	phone := "+251911000111"

	tests := []struct {
		name      string
		req       dto.CreateUserRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "creates guest by default with hashed password",
			req:  dto.CreateUserRequest{Email: "guest@hotel.et", Password: "secret123", FullName: "Almaz Tesfaye", Phone: &phone},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, constant.RoleGuest, user.Level)
						assert.Equal(t, "admin-id", user.CreatedBy)
						assert.True(t, user.Active)
						assert.NotEqual(t, "secret123", user.Password)
						assert.NoError(t, password.Verify("secret123", user.Password))

						return nil
					})
			},
		},
		{
			name: "duplicate email",
			req:  dto.CreateUserRequest{Email: "guest@hotel.et", Password: "secret123", FullName: "Almaz"},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "phone taken by another user",
			req:  dto.CreateUserRequest{Email: "new@hotel.et", Password: "secret123", FullName: "Almaz", Phone: &phone},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert: %w", gRepo.ErrUniqueViolation))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository failure",
			req:  dto.CreateUserRequest{Email: "x@hotel.et", Password: "secret123", FullName: "Almaz"},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(adminCtx(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.Email, res.Email)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), "user:get:u1", gomock.Any()).Return(errors.New("miss")).Times(2)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1", Email: "a@hotel.et", Level: constant.RoleStaff}, nil)

	res, err := svc.Get(adminCtx(), "u1")
	require.NoError(t, err)
	assert.Equal(t, constant.RoleStaff, res.Level)
	assert.Nil(t, res.LastLogin)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

	_, err = svc.Get(adminCtx(), "u1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestUserService_Update(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	level := constant.RoleStaff

	tests := []struct {
		name      string
		req       dto.UpdateUserRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "promotes to staff",
			req:  dto.UpdateUserRequest{Level: &level},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, constant.RoleStaff, fields[model.FieldLevel])
						assert.Equal(t, "admin-id", fields[constant.FieldModifiedBy])
						assert.NotContains(t, fields, model.FieldPassword)

						return nil
					})
			},
		},
		{
			name:      "empty patch",
			req:       dto.UpdateUserRequest{},
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing user",
			req:  dto.UpdateUserRequest{Level: &level},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(adminCtx(), tt.req, "u1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := svc.Delete(adminCtx(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(adminCtx(), "u1"))
}
