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
	categoryMocks "eventhub/internal/domains/category/mocks"
	"eventhub/internal/domains/category/model"
	"eventhub/internal/domains/category/model/dto"
	"eventhub/internal/domains/category/repository"
	"eventhub/internal/domains/category/service"
	vendorMocks "eventhub/internal/domains/vendors/mocks"
	"eventhub/internal/policy"
	cacheMocks "eventhub/shared/cache/mocks"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
)

const categoryID = "b7e6d5c4-a3b2-4c1d-9e8f-7a6b5c4d3e2f"

var (
	admin    = caller.Caller{UserID: "u-admin", Role: constant.RoleAdmin}
	customer = caller.Caller{UserID: "u-customer", Role: constant.RoleCustomer}
)

type fixture struct {
	categories *categoryMocks.MockCategory
	vendors    *vendorMocks.MockVendor
	cache      *cacheMocks.MockRedisCache
	svc        service.Category
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	f := fixture{
		categories: categoryMocks.NewMockCategory(ctrl),
		vendors:    vendorMocks.NewMockVendor(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.categories, f.vendors, policy.New(f.vendors, otel), cfg, f.cache, otel)

	return f
}

func decoration() model.Category {
	return model.Category{ID: categoryID, Name: "Decoration", Description: "Flowers and stage", Icon: "🎨", IsActive: true}
}

func TestCategoryService_List(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "category:active", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, ok := value.(*[]dto.CategoryResponse)
			require.True(t, ok)
			*res = []dto.CategoryResponse{{Name: "Catering"}}

			return nil
		})
		f.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Catering", res[0].Name)
	})

	t.Run("cache miss reads active categories", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Category{decoration()}, nil)

		res, err := f.svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.True(t, res[0].IsActive)
	})
}

func TestCategoryService_AdminList(t *testing.T) {
	t.Run("non admin", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AdminList(context.Background(), customer)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("attaches vendor counts case-insensitively", func(t *testing.T) {
		f := newFixture(t)
		f.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Category{
			decoration(),
			{ID: "c-2", Name: "Music"},
		}, nil)
		f.vendors.EXPECT().CountActiveByCategory(gomock.Any()).Return(map[string]int{"decoration": 3}, nil)

		res, err := f.svc.AdminList(context.Background(), admin)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, 3, res[0].VendorCount)
		assert.Equal(t, 0, res[1].VendorCount)
	})
}

func TestCategoryService_Create(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateCategoryRequest
		mock     func(f fixture)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing description",
			req:      dto.CreateCategoryRequest{Name: "Music"},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Validation error",
		},
		{
			name: "duplicate name",
			req:  dto.CreateCategoryRequest{Name: " decoration ", Description: "Again"},
			mock: func(f fixture) {
				f.categories.EXPECT().Exist(gomock.Any(), repository.NameFilter("decoration", "")).Return(true, nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Category name already exists",
		},
		{
			name: "created with default icon",
			req:  dto.CreateCategoryRequest{Name: "Music", Description: "Bands and DJs"},
			mock: func(f fixture) {
				f.categories.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.categories.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c model.Category) error {
					assert.Equal(t, model.DefaultIcon, c.Icon)
					assert.True(t, c.IsActive)

					return nil
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.mock != nil {
				tt.mock(f)
			}

			res, err := f.svc.Create(context.Background(), admin, tt.req)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Music", res.Name)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestCategoryService_Update(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, nil)

		_, err := f.svc.Update(context.Background(), admin, categoryID, dto.UpdateCategoryRequest{Name: "Music"})
		require.Error(t, err)
		assert.Equal(t, "Category not found", err.Error())
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("rename clashes with another category", func(t *testing.T) {
		f := newFixture(t)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(decoration(), nil)
		f.categories.EXPECT().Exist(gomock.Any(), repository.NameFilter("Music", categoryID)).Return(true, nil)
		f.categories.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Update(context.Background(), admin, categoryID, dto.UpdateCategoryRequest{Name: "Music"})
		require.Error(t, err)
		assert.Equal(t, "Category name already exists", err.Error())
	})

	t.Run("same name skips the uniqueness check", func(t *testing.T) {
		f := newFixture(t)
		inactive := false

		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(decoration(), nil)
		f.categories.EXPECT().Exist(gomock.Any(), gomock.Any()).Times(0)
		f.categories.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, false, fields[model.FieldIsActive])
			assert.NotContains(t, fields, model.FieldDescription)

			return nil
		})

		res, err := f.svc.Update(context.Background(), admin, categoryID, dto.UpdateCategoryRequest{Name: "Decoration", IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, res.IsActive)
		assert.Equal(t, "Flowers and stage", res.Description)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("in use is deactivated", func(t *testing.T) {
		f := newFixture(t)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(decoration(), nil)
		f.vendors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
		f.categories.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.categories.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.Delete(context.Background(), admin, categoryID)
		require.NoError(t, err)
		assert.Equal(t, service.MessageDeactivated, res.Message)
		require.NotNil(t, res.Category)
		assert.False(t, res.Category.IsActive)
	})

	t.Run("unused is deleted", func(t *testing.T) {
		f := newFixture(t)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(decoration(), nil)
		f.vendors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.categories.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)

		res, err := f.svc.Delete(context.Background(), admin, categoryID)
		require.NoError(t, err)
		assert.Equal(t, service.MessageDeleted, res.Message)
		assert.Nil(t, res.Category)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Delete(context.Background(), admin, "12")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
