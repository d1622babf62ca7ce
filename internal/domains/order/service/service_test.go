package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotelops/config"
	"hotelops/infras/otel/mocks"
	bookingMocks "hotelops/internal/domains/booking/mocks"
	bookingModel "hotelops/internal/domains/booking/model"
	orderMocks "hotelops/internal/domains/order/mocks"
	"hotelops/internal/domains/order/model"
	"hotelops/internal/domains/order/model/dto"
	"hotelops/internal/domains/order/service"
	cacheMocks "hotelops/shared/cache/mocks"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
)

func newService(t *testing.T) (service.Order, *orderMocks.MockOrder, *bookingMocks.MockBooking, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := orderMocks.NewMockOrder(ctrl)
	mockBooking := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockBooking.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(lockTx)
		}).
		AnyTimes()

	return service.New(mockRepo, mockBooking, cfg, mockCache, mocks.NewOtel()), mockRepo, mockBooking, mockCache
}

// lockTx stands in for the transaction holding the booking row lock.
var lockTx = &sqlx.Tx{}

func staffCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id")
}

func TestOrderService_Create(t *testing.T) {
	items := model.Items{
		{Name: "Kitfo", Quantity: 1, Price: decimal.RequireFromString("25.50")},
		{Name: "Tej", Quantity: 2, Price: decimal.RequireFromString("7.00")},
	}
	fixed := decimal.RequireFromString("30")

	tests := []struct {
		name      string
		req       dto.CreateOrderRequest
		booking   bookingModel.Booking
		insert    bool
		wantTotal string
		wantCode  int
	}{
		{
			name:      "total from items",
			req:       dto.CreateOrderRequest{BookingID: "booking-1", RoomID: "room-1", Items: items},
			booking:   bookingModel.Booking{ID: "booking-1", RoomID: "room-1", Status: bookingModel.StatusCheckedIn},
			insert:    true,
			wantTotal: "39.50",
		},
		{
			name:      "explicit total wins",
			req:       dto.CreateOrderRequest{BookingID: "booking-1", RoomID: "room-1", Items: items, TotalPrice: &fixed},
			booking:   bookingModel.Booking{ID: "booking-1", RoomID: "room-1", Status: bookingModel.StatusCheckedIn},
			insert:    true,
			wantTotal: "30.00",
		},
		{
			name:     "booking missing",
			req:      dto.CreateOrderRequest{BookingID: "booking-1", RoomID: "room-1", Items: items},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "booking not checked in",
			req:      dto.CreateOrderRequest{BookingID: "booking-1", RoomID: "room-1", Items: items},
			booking:  bookingModel.Booking{ID: "booking-1", RoomID: "room-1", Status: bookingModel.StatusConfirmed},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "booking checked out while waiting for the lock",
			req:      dto.CreateOrderRequest{BookingID: "booking-1", RoomID: "room-1", Items: items},
			booking:  bookingModel.Booking{ID: "booking-1", RoomID: "room-1", Status: bookingModel.StatusCheckedOut},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "room mismatch",
			req:      dto.CreateOrderRequest{BookingID: "booking-1", RoomID: "room-2", Items: items},
			booking:  bookingModel.Booking{ID: "booking-1", RoomID: "room-1", Status: bookingModel.StatusCheckedIn},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockBooking, _ := newService(t)

			mockBooking.EXPECT().GetForUpdateTx(gomock.Any(), lockTx, gomock.Any()).Return(tt.booking, nil)

			if tt.insert {
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), lockTx, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, order model.Order) error {
						assert.Equal(t, model.StatusPending, order.Status)
						assert.Equal(t, model.TypeFood, order.OrderType)
						assert.Nil(t, order.DeliveredAt)

						return nil
					})
			}

			res, err := svc.Create(staffCtx(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalPrice)
		})
	}
}

func TestOrderService_Create_InsertFailureRollsBack(t *testing.T) {
	svc, mockRepo, mockBooking, _ := newService(t)

	mockBooking.EXPECT().GetForUpdateTx(gomock.Any(), lockTx, gomock.Any()).
		Return(bookingModel.Booking{ID: "booking-1", RoomID: "room-1", Status: bookingModel.StatusCheckedIn}, nil)
	mockRepo.EXPECT().InsertTx(gomock.Any(), lockTx, gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.Create(staffCtx(), dto.CreateOrderRequest{
		BookingID: "booking-1",
		RoomID:    "room-1",
		Items:     model.Items{{Name: "Coffee", Quantity: 1, Price: decimal.RequireFromString("4")}},
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestOrderService_UpdateStatus_DeliveredAtIsNeverCleared(t *testing.T) {
	svc, mockRepo, _, _ := newService(t)

	stored := model.Order{ID: "order-1", BookingID: "booking-1", Status: model.StatusReady}

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, gDto.FilterGroup, ...string) (model.Order, error) {
		return stored, nil
	}).Times(2)

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusDelivered, fields[model.FieldStatus])
			deliveredAt, ok := fields[model.FieldDeliveredAt].(time.Time)
			require.True(t, ok)

			stored.Status = model.StatusDelivered
			stored.DeliveredAt = &deliveredAt

			return nil
		})

	res, err := svc.UpdateStatus(staffCtx(), dto.UpdateOrderStatusRequest{Status: model.StatusDelivered}, "order-1")
	require.NoError(t, err)
	require.NotNil(t, res.DeliveredAt)

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
			assert.NotContains(t, fields, model.FieldDeliveredAt)

			return nil
		})

	res, err = svc.UpdateStatus(staffCtx(), dto.UpdateOrderStatusRequest{Status: model.StatusCancelled}, "order-1")

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
	assert.NotNil(t, res.DeliveredAt)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	svc, mockRepo, _, _ := newService(t)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Order{}, nil)

	_, err := svc.UpdateStatus(staffCtx(), dto.UpdateOrderStatusRequest{Status: model.StatusReady}, "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestOrderService_GetAll(t *testing.T) {
	svc, mockRepo, _, mockCache := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalPage)
	assert.Empty(t, res.Orders)
}

func TestOrderService_Delete(t *testing.T) {
	svc, mockRepo, _, _ := newService(t)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Order{ID: "order-1", BookingID: "booking-1"}, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

	err := svc.Delete(staffCtx(), "order-1")

	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
