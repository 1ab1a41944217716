package middleware_test

import (
	"errors"
	"eventhub/config"
	otelMocks "eventhub/infras/otel/mocks"
	"eventhub/shared/cache"
	cacheMocks "eventhub/shared/cache/mocks"
	"eventhub/shared/constant"
	"eventhub/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limiterConfig(maxRequests int) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func limited(app middleware.AppMiddleware) http.Handler {
	return app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, ip string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/vendors", nil)
	request.Header.Set(constant.RequestHeaderForwardedFor, ip+", 10.0.0.1")
	request.Header.Set(constant.RequestHeaderUserAgent, "test-agent")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	return recorder
}

func TestRateLimitRedisWindow(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(2), cache.NewRedisCache(client, otelMocks.NewOtel()))
	handler := limited(app)

	first := hit(handler, "203.0.113.7")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get(constant.RequestHeaderRateLimit))
	assert.Equal(t, "1", first.Header().Get(constant.RequestHeaderRateLimitRemaining))
	assert.Equal(t, "60", first.Header().Get(constant.RequestHeaderRateLimitWindow))

	assert.Equal(t, http.StatusOK, hit(handler, "203.0.113.7").Code)

	third := hit(handler, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get(constant.RequestHeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, hit(handler, "198.51.100.2").Code, "other clients keep their own window")

	server.FastForward(61 * time.Second)

	assert.Equal(t, http.StatusOK, hit(handler, "203.0.113.7").Code, "window expired")
}

func TestRateLimitFallsBackToLocalLimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	redisCache.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("connection refused")).AnyTimes()

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(2), redisCache)
	handler := limited(app)

	assert.Equal(t, http.StatusOK, hit(handler, "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "198.51.100.2").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := limiterConfig(1)
	cfg.App.RateLimiter.Enable = false

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMocks.NewMockRedisCache(ctrl))
	handler := limited(app)

	for range 3 {
		assert.Equal(t, http.StatusOK, hit(handler, "203.0.113.7").Code)
	}
}
