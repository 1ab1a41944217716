package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"eventhub/config"
	"eventhub/infras/otel/mocks"
	userMocks "eventhub/internal/domains/user/mocks"
	"eventhub/internal/domains/user/model"
	"eventhub/internal/domains/user/model/dto"
	"eventhub/internal/domains/user/repository"
	"eventhub/internal/domains/user/service"
	cacheMocks "eventhub/shared/cache/mocks"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
)

var owner = caller.Caller{UserID: "u-1", Role: constant.RoleCustomer}

func newService(t *testing.T) (*userMocks.MockUser, *cacheMocks.MockRedisCache, service.User) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return repo, cache, service.New(repo, &config.Config{}, cache, mocks.NewOtel())
}

func TestUserService_Get(t *testing.T) {
	t.Run("cache miss", func(t *testing.T) {
		repo, cache, svc := newService(t)
		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", Name: "Asha", Password: "hash"}, nil)

		res, err := svc.Get(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, "Asha", res.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo, cache, svc := newService(t)
		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Get(context.Background(), "u-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	stored := model.User{ID: "u-1", Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Role: constant.RoleCustomer}

	tests := []struct {
		name     string
		req      dto.UpdateProfileRequest
		mock     func(repo *userMocks.MockUser)
		wantCode int
		check    func(t *testing.T, res dto.UserResponse)
	}{
		{
			name:     "invalid phone",
			req:      dto.UpdateProfileRequest{Phone: "12ab"},
			mock:     func(repo *userMocks.MockUser) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "email taken by another user",
			req:  dto.UpdateProfileRequest{Email: " Ravi@Example.com "},
			mock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				repo.EXPECT().Exist(gomock.Any(), repository.EmailFilter("ravi@example.com", "u-1")).Return(true, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "same email skips the uniqueness check",
			req:  dto.UpdateProfileRequest{Email: "ASHA@example.com", Name: "Asha R"},
			mock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					assert.Equal(t, "Asha R", fields[model.FieldName])
					assert.NotContains(t, fields, model.FieldPhone)

					return nil
				})
			},
			check: func(t *testing.T, res dto.UserResponse) {
				assert.Equal(t, "Asha R", res.Name)
				assert.Equal(t, "9876543210", res.Phone)
			},
		},
		{
			name: "user no longer exists",
			req:  dto.UpdateProfileRequest{Name: "Ghost"},
			mock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := newService(t)
			tt.mock(repo)

			res, err := svc.UpdateProfile(context.Background(), owner, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}
