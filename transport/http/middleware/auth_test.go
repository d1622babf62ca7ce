package middleware_test

import (
	"hotelops/config"
	"hotelops/infras/jwt"
	jwtMocks "hotelops/infras/jwt/mocks"
	otelMocks "hotelops/infras/otel/mocks"
	"hotelops/permissions"
	"hotelops/shared/constant"
	"hotelops/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(mw middleware.AuthRole) http.Handler {
	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKey, mw.Auth, mw.RBAC)

		r.Post("/auth/login", ok)
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", ok)
			r.Get("/mybookings", ok)
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	tests := []struct {
		name      string
		path      string
		method    string
		header    map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		wantCode  int
		wantRole  string
	}{
		{
			name:     "public route needs no token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/bookings/",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			method:   http.MethodGet,
			path:     "/v1/bookings/",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			method: http.MethodGet,
			path:   "/v1/bookings/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "claims without user",
			method: http.MethodGet,
			path:   "/v1/bookings/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer blank"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "blank", jwt.AccessToken).Return(&jwt.Claims{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "staff lists bookings",
			method: http.MethodGet,
			path:   "/v1/bookings/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer staff"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "staff", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "desk@hotel.test", Role: constant.RoleStaff}, nil)
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleStaff,
		},
		{
			name:   "guest forbidden from booking list",
			method: http.MethodGet,
			path:   "/v1/bookings/",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer guest"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "guest", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-2", Email: "guest@hotel.test", Role: constant.RoleGuest}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "guest reads own bookings",
			method: http.MethodGet,
			path:   "/v1/bookings/mybookings",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer guest"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "guest", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-2", Email: "guest@hotel.test", Role: constant.RoleGuest}, nil)
			},
			wantCode: http.StatusOK,
			wantRole: constant.RoleGuest,
		},
		{
			name:     "internal api key bypasses auth",
			method:   http.MethodGet,
			path:     "/v1/bookings/",
			header:   map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			path:     "/v1/bookings/",
			header:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockJWT := jwtMocks.NewMockJWT(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(mockJWT)
			}

			mw := middleware.NewAuthRoleMiddleware(mockJWT, otelMocks.NewOtel(), permissions.Get(), cfg)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			rr := httptest.NewRecorder()
			newRouter(mw).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantRole, rr.Header().Get("X-Role"))
		})
	}
}

func TestRBAC_DeniesWithoutRuleTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockJWT.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&jwt.Claims{UserID: "u-1", Email: "a@hotel.test", Role: constant.RoleAdmin}, nil)

	mw := middleware.NewAuthRoleMiddleware(mockJWT, otelMocks.NewOtel(), nil, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/", nil)
	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer admin")

	rr := httptest.NewRecorder()
	newRouter(mw).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
