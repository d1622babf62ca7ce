package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotelops/config"
	"hotelops/infras/otel/mocks"
	s3Mocks "hotelops/infras/s3/mocks"
	hotelMocks "hotelops/internal/domains/hotel/mocks"
	roomMocks "hotelops/internal/domains/room/mocks"
	"hotelops/internal/domains/room/model"
	"hotelops/internal/domains/room/model/dto"
	"hotelops/internal/domains/room/service"
	cacheMocks "hotelops/shared/cache/mocks"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	gRepo "hotelops/shared/repository"
)

type fixture struct {
	svc       service.Room
	repo      *roomMocks.MockRoom
	hotelRepo *hotelMocks.MockHotel
	cache     *cacheMocks.MockRedisCache
	s3        *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      roomMocks.NewMockRoom(ctrl),
		hotelRepo: hotelMocks.NewMockHotel(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.hotelRepo, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func userCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
}

func TestRoomService_Create(t *testing.T) {
	f := newFixture(t)

	req := dto.CreateRoomRequest{
		HotelID:       "hotel-1",
		RoomNumber:    "101",
		Type:          model.TypeDeluxe,
		Capacity:      2,
		PricePerNight: decimal.RequireFromString("100"),
	}

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
		wantErr   bool
	}{
		{
			name: "defaults beds bathrooms and status",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, 1, room.Beds)
						assert.Equal(t, 1, room.Bathrooms)
						assert.Equal(t, model.StatusAvailable, room.Status)
						assert.Equal(t, "admin-id", room.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "hotel not found",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "duplicate room number",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to insert: %w", gRepo.ErrUniqueViolation))
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "database error",
			setupMock: func() {
				f.hotelRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr:  true,
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Create(userCtx(), req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "100.00", res.PricePerNight)
			}
		})
	}
}

func TestRoomService_UpdateStatus(t *testing.T) {
	f := newFixture(t)

	t.Run("writes status only", func(t *testing.T) {
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusMaintenance, fields[model.FieldStatus])
				assert.Equal(t, "admin-id", fields[constant.FieldModifiedBy])

				return nil
			})

		err := f.svc.UpdateStatus(userCtx(), dto.UpdateRoomStatusRequest{Status: model.StatusMaintenance}, "room-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.UpdateStatus(userCtx(), dto.UpdateRoomStatusRequest{Status: model.StatusAvailable}, "missing")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_GetAvailable_Pagination(t *testing.T) {
	f := newFixture(t)

	all := make([]model.Room, 25)
	for i := range all {
		all[i] = model.Room{ID: fmt.Sprintf("room-%02d", i), RoomNumber: fmt.Sprintf("%03d", i+100), Status: model.StatusAvailable}
	}

	f.repo.EXPECT().CountAvailable(gomock.Any(), gomock.Any()).Return(len(all), nil).Times(3)
	f.repo.EXPECT().
		GetAvailable(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ model.AvailabilityQuery) ([]model.Room, error) {
			assert.Equal(t, []gDto.Sort{{Field: model.FieldRoomNumber, Dir: gDto.SortDirAsc}}, params.Sorts)

			start := (params.Page - 1) * params.Limit
			end := min(start+params.Limit, len(all))

			return all[start:end], nil
		}).
		Times(3)

	seen := map[string]bool{}

	for page := 1; page <= 3; page++ {
		res, err := f.svc.GetAvailable(context.Background(), gDto.QueryParams{Page: page, Limit: 10}, dto.AvailableRoomsRequest{})
		require.NoError(t, err)

		assert.Equal(t, 25, res.Total)
		assert.Equal(t, page, res.Page)
		assert.Equal(t, 3, res.TotalPages)

		for _, room := range res.Rooms {
			assert.False(t, seen[room.ID], "room %s returned twice", room.ID)
			seen[room.ID] = true
		}
	}

	assert.Len(t, seen, 25)
}

func TestRoomService_GetAvailable_Window(t *testing.T) {
	f := newFixture(t)

	d0 := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	d3 := d0.AddDate(0, 0, 3)
	two := 2

	tests := []struct {
		name      string
		req       dto.AvailableRoomsRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "window and filters reach the repository",
			req:  dto.AvailableRoomsRequest{HotelID: "hotel-1", CheckIn: &d0, CheckOut: &d3, Beds: &two},
			setupMock: func() {
				match := gomock.Cond(func(q model.AvailabilityQuery) bool {
					return q.HotelID == "hotel-1" && q.CheckIn.Equal(d0) && q.CheckOut.Equal(d3) && *q.Beds == 2 && q.Bathrooms == nil
				})

				f.repo.EXPECT().CountAvailable(gomock.Any(), match).Return(0, nil)
				f.repo.EXPECT().GetAvailable(gomock.Any(), gomock.Any(), match).Return(nil, nil)
			},
		},
		{
			name:      "only check in",
			req:       dto.AvailableRoomsRequest{CheckIn: &d0},
			setupMock: func() {},
			wantCode:  400,
		},
		{
			name:      "inverted window",
			req:       dto.AvailableRoomsRequest{CheckIn: &d3, CheckOut: &d0},
			setupMock: func() {},
			wantCode:  400,
		},
		{
			name: "count fails",
			req:  dto.AvailableRoomsRequest{},
			setupMock: func() {
				f.repo.EXPECT().CountAvailable(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))
				f.repo.EXPECT().GetAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.GetAvailable(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 0, res.TotalPages)
			assert.Empty(t, res.Rooms)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

	err := f.svc.Delete(userCtx(), "missing")

	assert.Equal(t, 404, failure.GetCode(err))
}
