package helper_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotelops/helper"
	hotelMocks "hotelops/internal/domains/hotel/mocks"
	hotelModel "hotelops/internal/domains/hotel/model"
	roomMocks "hotelops/internal/domains/room/mocks"
	roomModel "hotelops/internal/domains/room/model"
	userMocks "hotelops/internal/domains/user/mocks"
	userModel "hotelops/internal/domains/user/model"
	"hotelops/shared/constant"
	"hotelops/shared/password"
)

func TestSeeder_Run(t *testing.T) {
	ctrl := gomock.NewController(t)

	hotels := hotelMocks.NewMockHotel(ctrl)
	rooms := roomMocks.NewMockRoom(ctrl)
	users := userMocks.NewMockUser(ctrl)

	var (
		mu          sync.Mutex
		roomsByType = map[roomModel.Type]int{}
		roomNumbers = map[string]map[string]bool{}
	)

	users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	users.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u userModel.User) error {
			assert.Equal(t, constant.RoleAdmin, u.Level)
			assert.Equal(t, "admin@hotelops.local", u.Email)
			assert.NoError(t, password.Verify("s3cret-pass", u.Password))

			return nil
		})
	hotels.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, h hotelModel.Hotel) error {
			assert.NotEmpty(t, h.ID)

			return nil
		}).
		Times(3)
	rooms.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r roomModel.Room) error {
			mu.Lock()
			defer mu.Unlock()

			roomsByType[r.Type]++

			if roomNumbers[r.HotelID] == nil {
				roomNumbers[r.HotelID] = map[string]bool{}
			}

			assert.False(t, roomNumbers[r.HotelID][r.RoomNumber], "duplicate room number %s", r.RoomNumber)
			roomNumbers[r.HotelID][r.RoomNumber] = true

			return nil
		}).
		Times(60)

	err := helper.NewSeeder(hotels, rooms, users).Run(context.Background(), helper.SeedOptions{
		Workers:       2,
		AdminEmail:    "admin@hotelops.local",
		AdminPassword: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Len(t, roomNumbers, 3)

	for _, typ := range []roomModel.Type{roomModel.TypeStandard, roomModel.TypeDeluxe, roomModel.TypeSuite, roomModel.TypePresidential} {
		assert.Equal(t, 15, roomsByType[typ], typ)
	}
}

func TestSeeder_RunAdminRequiresPassword(t *testing.T) {
	ctrl := gomock.NewController(t)

	users := userMocks.NewMockUser(ctrl)
	users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := helper.NewSeeder(hotelMocks.NewMockHotel(ctrl), roomMocks.NewMockRoom(ctrl), users).
		Run(context.Background(), helper.SeedOptions{AdminEmail: "admin@hotelops.local"})

	assert.ErrorIs(t, err, helper.ErrMissingAdminPassword)
}

func TestSeeder_RunReportsHotelFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	hotels := hotelMocks.NewMockHotel(ctrl)
	users := userMocks.NewMockUser(ctrl)

	users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	hotels.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down")).Times(3)

	err := helper.NewSeeder(hotels, roomMocks.NewMockRoom(ctrl), users).
		Run(context.Background(), helper.SeedOptions{Workers: 3, AdminEmail: "admin@hotelops.local"})

	assert.Error(t, err)
}
