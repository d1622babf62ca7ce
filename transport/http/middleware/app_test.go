package middleware_test

import (
	"errors"
	"hotelops/config"
	otelMocks "hotelops/infras/otel/mocks"
	"hotelops/shared/cache"
	"hotelops/shared/cache/mocks"
	"hotelops/shared/constant"
	"hotelops/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limitedRouter(mw middleware.AppMiddleware) http.Handler {
	router := chi.NewRouter()
	router.Use(mw.RateLimit())
	router.Get("/v1/rooms/available", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}

func limiterConfig(maxRequests int) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(2), cache.NewRedisCache(client, otelMocks.NewOtel()))
	router := limitedRouter(mw)

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/rooms/available", nil)
		req.RemoteAddr = remote
		req.Header.Set(constant.RequestHeaderUserAgent, "kiosk")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		return rr
	}

	first := call("10.0.0.7:5100")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get(constant.RequestHeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, call("10.0.0.7:5101").Code)

	blocked := call("10.0.0.7:5102")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get(constant.RequestHeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, call("10.0.0.8:5100").Code, "other clients keep their own budget")

	mr.FastForward(61 * time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.7:5103").Code, "a new window starts after expiry")
}

func TestRateLimit_CacheOutageAllows(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("connection refused"))

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(1), mockCache)

	rr := httptest.NewRecorder()
	limitedRouter(mw).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/rooms/available", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockRedisCache(ctrl)

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, mockCache)

	rr := httptest.NewRecorder()
	limitedRouter(mw).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/rooms/available", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(constant.RequestHeaderRateLimit))
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://frontdesk.example.com"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPost}

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil)

	router := chi.NewRouter()
	router.Use(mw.CORS())
	router.Get("/v1/hotels/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/", nil)
	req.Header.Set("Origin", "https://frontdesk.example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "https://frontdesk.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/hotels/", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
