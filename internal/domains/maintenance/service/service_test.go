package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotelops/config"
	"hotelops/infras/llm"
	llmMocks "hotelops/infras/llm/mocks"
	"hotelops/infras/otel/mocks"
	bookingMocks "hotelops/internal/domains/booking/mocks"
	bookingModel "hotelops/internal/domains/booking/model"
	maintenanceMocks "hotelops/internal/domains/maintenance/mocks"
	"hotelops/internal/domains/maintenance/model"
	"hotelops/internal/domains/maintenance/model/dto"
	"hotelops/internal/domains/maintenance/service"
	roomMocks "hotelops/internal/domains/room/mocks"
	roomModel "hotelops/internal/domains/room/model"
	userMocks "hotelops/internal/domains/user/mocks"
	userModel "hotelops/internal/domains/user/model"
	cacheMocks "hotelops/shared/cache/mocks"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/timezone"
)

type fixture struct {
	svc       service.Maintenance
	repo      *maintenanceMocks.MockMaintenance
	users     *userMocks.MockUser
	bookings  *bookingMocks.MockBooking
	rooms     *roomMocks.MockRoom
	assistant *llmMocks.MockAssistant
	cache     *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      maintenanceMocks.NewMockMaintenance(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		assistant: llmMocks.NewMockAssistant(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.users, f.bookings, f.rooms, f.assistant, cfg, f.cache, mocks.NewOtel())

	return f
}

func staffCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
}

func TestMaintenanceService_Create(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		req       dto.CreateMaintenanceRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "defaults category priority and status",
			req:  dto.CreateMaintenanceRequest{HotelID: "h1", RoomID: "r1", Description: "Lamp flickers"},
			setupMock: func() {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "r1", HotelID: "h1", RoomNumber: "101"}, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Maintenance) error {
						assert.Equal(t, model.CategoryOther, m.Category)
						assert.Equal(t, model.PriorityMedium, m.Priority)
						assert.Equal(t, model.StatusPending, m.Status)
						assert.Nil(t, m.ResolvedAt)
						assert.Equal(t, "staff-1", m.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "room missing",
			req:  dto.CreateMaintenanceRequest{HotelID: "h1", RoomID: "r9", Description: "x"},
			setupMock: func() {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "room in another hotel",
			req:  dto.CreateMaintenanceRequest{HotelID: "h1", RoomID: "r1", Description: "x"},
			setupMock: func() {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "r1", HotelID: "h2"}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Create(staffCtx(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "101", res.RoomNumber)
		})
	}
}

func TestMaintenanceService_GetAllOrdering(t *testing.T) {
	tests := []struct {
		name      string
		list      dto.ListMaintenanceRequest
		wantSorts []gDto.Sort
		wantWhere string
	}{
		{
			name:      "no filters sorts newest first",
			list:      dto.ListMaintenanceRequest{},
			wantSorts: []gDto.Sort{{Field: "created_at", Dir: gDto.SortDirDesc}},
		},
		{
			name:      "hotel filter alone keeps newest first",
			list:      dto.ListMaintenanceRequest{HotelID: "h1"},
			wantSorts: []gDto.Sort{{Field: "created_at", Dir: gDto.SortDirDesc}},
			wantWhere: "(maintenance_requests.hotel_id = :hotel_id)",
		},
		{
			name: "priority filter triages",
			list: dto.ListMaintenanceRequest{HotelID: "h1", Priority: "urgent"},
			wantSorts: []gDto.Sort{
				{Field: "status", Dir: gDto.SortDirAsc},
				{Field: "priority", Dir: gDto.SortDirDesc},
				{Field: "created_at", Dir: gDto.SortDirDesc},
			},
			wantWhere: "(maintenance_requests.hotel_id = :hotel_id AND maintenance_requests.priority = :priority)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
			f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
			f.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Maintenance, error) {
					assert.Equal(t, tt.wantSorts, params.Sorts)
					assert.Empty(t, params.SortBy)

					where, _ := filter.GetWhereClause()
					assert.Equal(t, tt.wantWhere, where)

					return []model.Maintenance{{ID: "m1"}}, nil
				})

			res, err := f.svc.GetAll(staffCtx(), gDto.QueryParams{Page: 1, Limit: 5, SortBy: "description"}, tt.list)
			require.NoError(t, err)
			assert.Equal(t, 12, res.TotalData)
			assert.Equal(t, 3, res.TotalPage)
		})
	}
}

func TestMaintenanceService_UpdateResolvedAt(t *testing.T) {
	f := newFixture(t)

	resolved := model.StatusResolved
	closed := model.StatusClosed
	earlier := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		current      model.Maintenance
		req          dto.UpdateMaintenanceRequest
		wantStamped  bool
		wantResolved *time.Time
	}{
		{
			name:        "first resolution stamps",
			current:     model.Maintenance{ID: "m1", Status: model.StatusInProgress},
			req:         dto.UpdateMaintenanceRequest{Status: &resolved},
			wantStamped: true,
		},
		{
			name:         "already resolved keeps stamp",
			current:      model.Maintenance{ID: "m1", Status: model.StatusResolved, ResolvedAt: &earlier},
			req:          dto.UpdateMaintenanceRequest{Status: &resolved},
			wantResolved: &earlier,
		},
		{
			name:         "closing after resolution keeps stamp",
			current:      model.Maintenance{ID: "m1", Status: model.StatusResolved, ResolvedAt: &earlier},
			req:          dto.UpdateMaintenanceRequest{Status: &closed},
			wantResolved: &earlier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			f.repo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					_, stamped := fields[model.FieldResolvedAt]
					assert.Equal(t, tt.wantStamped, stamped)

					return nil
				})

			res, err := f.svc.Update(staffCtx(), tt.req, "m1")
			require.NoError(t, err)
			require.NotNil(t, res.ResolvedAt)

			if tt.wantResolved != nil {
				assert.Equal(t, timezone.Format(*tt.wantResolved, constant.DateFormat), *res.ResolvedAt)
			}
		})
	}
}

func TestMaintenanceService_UpdateErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(staffCtx(), dto.UpdateMaintenanceRequest{}, "m1")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	resolved := model.StatusResolved

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Maintenance{}, nil)

	_, err = f.svc.Update(staffCtx(), dto.UpdateMaintenanceRequest{Status: &resolved}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestMaintenanceService_IngestWhatsApp(t *testing.T) {
	guest := userModel.User{ID: "u1", FullName: "Hanna"}
	stay := bookingModel.Booking{ID: "b2", RoomID: "r7", HotelID: "h1", Status: bookingModel.StatusCheckedIn}
	longMessage := strings.Repeat("ሻወር አይሰራም ", 20)

	tests := []struct {
		name        string
		msg         gDto.WhatsAppMessage
		setupMock   func(f fixture)
		wantSuccess bool
		wantMessage string
	}{
		{
			name: "files request for the latest checked in stay",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000111", Body: "The AC is leaking water"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), "+251911000111").Return(guest, nil)
				f.bookings.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
						assert.Equal(t, 1, params.Limit)
						assert.Equal(t, []gDto.Sort{{Field: "check_in_date", Dir: gDto.SortDirDesc}}, params.Sorts)

						_, args := filter.GetWhereClause()
						assert.Equal(t, "u1", args["user_id"])
						assert.Equal(t, bookingModel.StatusCheckedIn, args["status"])

						return []bookingModel.Booking{stay}, nil
					})
				f.assistant.EXPECT().CategorizeMaintenance(gomock.Any(), "The AC is leaking water").
					Return(llm.MaintenanceAnalysis{Category: "hvac", Priority: "high", Summary: "AC leak"}, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Maintenance) error {
						assert.Equal(t, "h1", m.HotelID)
						assert.Equal(t, "r7", m.RoomID)
						assert.Equal(t, "b2", *m.BookingID)
						assert.Equal(t, "u1", *m.UserID)
						assert.Equal(t, model.CategoryHVAC, m.Category)
						assert.Equal(t, model.PriorityHigh, m.Priority)
						assert.Equal(t, "+251911000111", m.PhoneNumber)
						assert.Contains(t, m.AIAnalysis, `"category":"hvac"`)
						assert.Equal(t, constant.ContextWebhook, m.CreatedBy)

						return nil
					})
			},
			wantSuccess: true,
			wantMessage: "Maintenance request received. Hotel staff will assist you shortly.",
		},
		{
			name: "assistant failure falls back to other and medium",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000111", Body: longMessage},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), gomock.Any()).Return(guest, nil)
				f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{stay}, nil)
				f.assistant.EXPECT().CategorizeMaintenance(gomock.Any(), gomock.Any()).Return(llm.MaintenanceAnalysis{}, llm.ErrDisabled)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Maintenance) error {
						assert.Equal(t, model.CategoryOther, m.Category)
						assert.Equal(t, model.PriorityMedium, m.Priority)
						assert.Equal(t, 100, len([]rune(m.Description)))
						assert.Equal(t, longMessage, m.OriginalMessageAmharic)

						return nil
					})
			},
			wantSuccess: true,
			wantMessage: "Maintenance request received. Hotel staff will assist you shortly.",
		},
		{
			name: "unknown category from assistant is coerced",
			msg:  gDto.WhatsAppMessage{From: "+251911000111", Body: "Window stuck"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), "+251911000111").Return(guest, nil)
				f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{stay}, nil)
				f.assistant.EXPECT().CategorizeMaintenance(gomock.Any(), gomock.Any()).
					Return(llm.MaintenanceAnalysis{Category: "windows", Priority: "critical", Summary: "Window stuck"}, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m model.Maintenance) error {
						assert.Equal(t, model.CategoryOther, m.Category)
						assert.Equal(t, model.PriorityMedium, m.Priority)

						return nil
					})
			},
			wantSuccess: true,
			wantMessage: "Maintenance request received. Hotel staff will assist you shortly.",
		},
		{
			name: "unknown phone",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251900000000", Body: "Help"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), "+251900000000").Return(userModel.User{}, nil)
			},
			wantMessage: "User not found. Please contact hotel reception.",
		},
		{
			name: "no checked in booking",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000111", Body: "Help"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), gomock.Any()).Return(guest, nil)
				f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantMessage: "No active booking found. Please contact hotel reception.",
		},
		{
			name: "insert failure is reported in payload",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000111", Body: "Help"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), gomock.Any()).Return(guest, nil)
				f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{stay}, nil)
				f.assistant.EXPECT().CategorizeMaintenance(gomock.Any(), gomock.Any()).Return(llm.MaintenanceAnalysis{Category: "other", Priority: "low", Summary: "Help"}, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantMessage: "Error processing your request. Please contact hotel reception.",
		},
		{
			name: "user lookup failure is reported in payload",
			msg:  gDto.WhatsAppMessage{From: "whatsapp:+251911000111", Body: "Help"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByPhone(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("db down"))
			},
			wantMessage: "Error processing your request. Please contact hotel reception.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res := f.svc.IngestWhatsApp(context.Background(), tt.msg)

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)

			if tt.wantSuccess {
				assert.NotEmpty(t, res.RequestID)
			}
		})
	}
}

func TestMaintenanceService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(staffCtx(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Delete(staffCtx(), "m1"))
}
