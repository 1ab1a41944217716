package auth_test

import (
	"bytes"
	"eventhub/config"
	otelMocks "eventhub/infras/otel/mocks"
	"eventhub/internal/domains/auth/model/dto"
	serviceMocks "eventhub/internal/domains/auth/service/mocks"
	"eventhub/internal/handlers/auth"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T, cfg *config.Config, c caller.Caller) (chi.Router, *serviceMocks.MockAuth) {
	t.Helper()

	svc := serviceMocks.NewMockAuth(gomock.NewController(t))
	handler := auth.New(svc, cfg, otelMocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(caller.WithCaller(r.Context(), c)))
		})
	})
	handler.Router(router)

	return router, svc
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	require.FailNow(t, "cookie not set", name)

	return nil
}

func TestLoginSetsCookie(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		cookieName string
		wantName   string
		wantSecure bool
	}{
		{name: "development default name", env: constant.ServerEnvDevelopment, wantName: constant.DefaultCookieName},
		{name: "production custom name", env: constant.ServerEnvProduction, cookieName: "session", wantName: "session", wantSecure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.Env = tt.env
			cfg.Auth.CookieName = tt.cookieName

			router, svc := newRouter(t, cfg, caller.Caller{})

			expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
			svc.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "ana@example.com", Password: "secret"}).
				Return(dto.LoginResponse{Token: "signed", ExpiresAt: expires}, nil)

			request := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"ana@example.com","password":"secret"}`))

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"token":"signed"`)

			cookie := sessionCookie(t, recorder, tt.wantName)
			assert.Equal(t, "signed", cookie.Value)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, tt.wantSecure, cookie.Secure)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			assert.True(t, expires.Equal(cookie.Expires.UTC()))
		})
	}
}

func TestLoginFailureSetsNoCookie(t *testing.T) {
	router, svc := newRouter(t, &config.Config{}, caller.Caller{})

	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("Invalid credentials"))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong"}`)))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestRegisterCreated(t *testing.T) {
	router, svc := newRouter(t, &config.Config{}, caller.Caller{})

	svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(dto.RegisterResponse{Message: dto.MessageRegistered, Token: "signed"}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"name":"Ana","email":"ana@example.com","password":"secret1"}`)))

	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	session := caller.Caller{UserID: "user-1", Role: constant.RoleCustomer, TokenID: "token-1"}
	router, svc := newRouter(t, &config.Config{}, session)

	svc.EXPECT().Logout(gomock.Any(), session).Return(nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, recorder.Body.String())

	cookie := sessionCookie(t, recorder, constant.DefaultCookieName)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}
