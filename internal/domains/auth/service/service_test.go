package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"eventhub/config"
	"eventhub/infras/jwt"
	jwtMocks "eventhub/infras/jwt/mocks"
	"eventhub/infras/otel/mocks"
	"eventhub/internal/domains/auth/model/dto"
	"eventhub/internal/domains/auth/service"
	userMocks "eventhub/internal/domains/user/mocks"
	userModel "eventhub/internal/domains/user/model"
	vendorMocks "eventhub/internal/domains/vendors/mocks"
	vendorModel "eventhub/internal/domains/vendors/model"
	cacheMocks "eventhub/shared/cache/mocks"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"eventhub/shared/password"
	txMocks "eventhub/shared/transaction/mocks"
)

type fixture struct {
	users   *userMocks.MockUser
	vendors *vendorMocks.MockVendor
	jwt     *jwtMocks.MockJWT
	cache   *cacheMocks.MockRedisCache
	cfg     *config.Config
	svc     service.Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		users:   userMocks.NewMockUser(ctrl),
		vendors: vendorMocks.NewMockVendor(ctrl),
		jwt:     jwtMocks.NewMockJWT(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		cfg:     &config.Config{},
	}
	f.svc = service.New(f.users, f.vendors, txMocks.NewRunner(), f.jwt, f.cache, f.cfg, mocks.NewOtel())

	return f
}

func registerRequest(role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "Asha@Example.com",
		Password: "secret1",
		Phone:    "9876543210",
		Role:     role,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("vendor registration creates a pending vendor owned by the user", func(t *testing.T) {
		f := newFixture(t)

		var created userModel.User

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ any, u userModel.User) error {
			created = u

			return nil
		})
		f.vendors.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ any, v vendorModel.Vendor) error {
			assert.Equal(t, created.ID, v.UserID)
			assert.Equal(t, vendorModel.StatusPending, v.Status)
			assert.Equal(t, vendorModel.DefaultCategory, v.Category)
			assert.Equal(t, "asha@example.com", v.Email)

			return nil
		})
		f.jwt.EXPECT().Generate(gomock.Any(), "asha@example.com", constant.RoleVendor, 24*time.Hour).
			Return(&jwt.Token{Value: "signed", TokenID: "t-1"}, nil)

		res, err := f.svc.Register(context.Background(), registerRequest("vendor"))
		require.NoError(t, err)
		assert.Equal(t, dto.MessageRegistered, res.Message)
		assert.Equal(t, "signed", res.Token)
		assert.Equal(t, created.ID, res.User.ID)
		assert.NoError(t, password.Verify("secret1", created.Password))
	})

	t.Run("customer registration creates no vendor", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.JWT.RegisterExpireMin = 60

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.vendors.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), constant.RoleCustomer, time.Hour).Return(&jwt.Token{Value: "signed"}, nil)

		res, err := f.svc.Register(context.Background(), registerRequest("customer"))
		require.NoError(t, err)
		assert.Equal(t, constant.RoleCustomer, res.User.Role)
	})

	t.Run("failed vendor insert gives no token", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.vendors.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("duplicate key"))
		f.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Register(context.Background(), registerRequest("vendor"))
		require.Error(t, err)
	})

	t.Run("existing email", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Register(context.Background(), registerRequest("customer"))
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, "User already exists", err.Error())
	})

	t.Run("admin registration disabled", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Register(context.Background(), registerRequest("admin"))
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("invalid fields", func(t *testing.T) {
		f := newFixture(t)
		req := registerRequest("organizer")
		req.Phone = "12345"

		_, err := f.svc.Register(context.Background(), req)
		require.Error(t, err)

		details := failure.GetDetails(err)
		assert.Contains(t, details, "phone")
		assert.Contains(t, details, "role")
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.Hash("secret1")
	require.NoError(t, err)

	stored := userModel.User{ID: "u-1", Name: "Asha", Email: "asha@example.com", Password: hash, Role: constant.RoleCustomer}

	tests := []struct {
		name     string
		req      dto.LoginRequest
		mock     func(f *fixture)
		wantCode int
	}{
		{
			name: "success",
			req:  dto.LoginRequest{Email: "ASHA@example.com", Password: "secret1"},
			mock: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				f.jwt.EXPECT().Generate("u-1", "asha@example.com", constant.RoleCustomer, constant.DefaultTokenTTL).
					Return(&jwt.Token{Value: "signed", ExpiresAt: time.Now().Add(time.Hour)}, nil)
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"},
			mock: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "asha@example.com", Password: "guess"},
			mock: func(f *fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "missing password",
			req:      dto.LoginRequest{Email: "asha@example.com"},
			mock:     func(f *fixture) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.mock(f)

			res, err := f.svc.Login(context.Background(), tt.req)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, "signed", res.Token)
				assert.Equal(t, "u-1", res.User.ID)
				assert.False(t, res.ExpiresAt.IsZero())

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, "Invalid email or password", err.Error())
			}
		})
	}
}

func TestAuthService_Validate(t *testing.T) {
	c := caller.Caller{UserID: "u-1", Role: constant.RoleCustomer}

	t.Run("existing user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "u-1", Name: "Asha"}, nil)

		res, err := f.svc.Validate(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, "Asha", res.User.Name)
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := f.svc.Validate(context.Background(), c)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("denylists the token until it expires", func(t *testing.T) {
		f := newFixture(t)
		c := caller.Caller{UserID: "u-1", TokenID: "t-1", ExpiresAt: time.Now().Add(time.Hour)}

		f.cache.EXPECT().Save(gomock.Any(), constant.CacheKeyRevokedToken+"t-1", true, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ any, ttl int) error {
				assert.InDelta(t, 3600, ttl, 5)

				return nil
			})

		require.NoError(t, f.svc.Logout(context.Background(), c))
	})

	t.Run("expired token needs no entry", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		c := caller.Caller{UserID: "u-1", TokenID: "t-1", ExpiresAt: time.Now().Add(-time.Minute)}
		require.NoError(t, f.svc.Logout(context.Background(), c))
	})

	t.Run("revocation is visible", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Exists(gomock.Any(), constant.CacheKeyRevokedToken+"t-1").Return(true, nil)

		revoked, err := f.svc.IsRevoked(context.Background(), "t-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
