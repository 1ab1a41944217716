package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"eventhub/config"
	"eventhub/infras/otel/mocks"
	storageMocks "eventhub/infras/storage/mocks"
	categoryMocks "eventhub/internal/domains/category/mocks"
	categoryModel "eventhub/internal/domains/category/model"
	productMocks "eventhub/internal/domains/product/mocks"
	"eventhub/internal/domains/product/model"
	"eventhub/internal/domains/product/model/dto"
	"eventhub/internal/domains/product/service"
	vendorMocks "eventhub/internal/domains/vendors/mocks"
	vendorModel "eventhub/internal/domains/vendors/model"
	"eventhub/internal/policy"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
)

const (
	productID  = "0d7a5a8e-3c1b-4f0a-9f53-6b2c7c1e9a01"
	vendorID   = "8c4e2f10-55d2-4b8f-a1c3-2e9f0b7d6a22"
	categoryID = "f1a2b3c4-d5e6-4f70-8192-a3b4c5d6e7f8"
)

type fixture struct {
	products   *productMocks.MockProduct
	vendors    *vendorMocks.MockVendor
	categories *categoryMocks.MockCategory
	store      *storageMocks.MockFileStore
	svc        service.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	f := fixture{
		products:   productMocks.NewMockProduct(ctrl),
		vendors:    vendorMocks.NewMockVendor(ctrl),
		categories: categoryMocks.NewMockCategory(ctrl),
		store:      storageMocks.NewMockFileStore(ctrl),
	}

	f.svc = service.New(f.products, f.vendors, f.categories, policy.New(f.vendors, otel), f.store, &config.Config{}, otel)

	return f
}

var (
	owner    = caller.Caller{UserID: "u-owner", Role: constant.RoleVendor}
	stranger = caller.Caller{UserID: "u-other", Role: constant.RoleVendor}
)

func ownVendor() vendorModel.Vendor {
	return vendorModel.Vendor{ID: vendorID, UserID: owner.UserID, Name: "Bloom Decor"}
}

func storedProduct() model.Product {
	return model.Product{
		ID:       productID,
		VendorID: vendorID,
		Name:     "Stage lighting",
		Price:    1200,
		Category: "Decoration",
		Images: model.Images{
			{URL: "/uploads/products/a.jpg", Filename: "a.jpg"},
			{URL: "/uploads/products/b.jpg", Filename: "b.jpg"},
		},
	}
}

func price(v float64) *float64 {
	return &v
}

func imageUpload(t *testing.T, name, contentType string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["images"][0]
}

func assertCode(t *testing.T, err error, code int, msg string) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, code, failure.GetCode(err))

	if msg != "" {
		assert.Equal(t, msg, err.Error())
	}
}

func TestProductService_Create(t *testing.T) {
	valid := func() dto.CreateProductRequest {
		return dto.CreateProductRequest{
			Name:        " Stage lighting ",
			Description: "Full rig",
			Price:       price(1200),
			CategoryID:  categoryID,
			Features:    []string{"DMX", " ", "Fog"},
			IsAvailable: true,
		}
	}

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		req := valid()
		req.Name = ""

		_, err := f.svc.Create(context.Background(), owner, req)
		assertCode(t, err, http.StatusBadRequest, "")
		assert.Contains(t, failure.GetDetails(err), "name")
	})

	t.Run("caller without vendor profile", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{}, nil)

		_, err := f.svc.Create(policy.WithMemo(context.Background()), owner, valid())
		assertCode(t, err, http.StatusNotFound, policy.MessageVendorNotFound)
	})

	t.Run("category id that is not a uuid", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)

		req := valid()
		req.CategoryID = "decoration"

		_, err := f.svc.Create(policy.WithMemo(context.Background()), owner, req)
		assertCode(t, err, http.StatusBadRequest, "Invalid category")
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(categoryModel.Category{}, nil)

		_, err := f.svc.Create(policy.WithMemo(context.Background()), owner, valid())
		assertCode(t, err, http.StatusBadRequest, "Invalid category")
	})

	t.Run("non image upload is rejected before anything is stored", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(categoryModel.Category{ID: categoryID, Name: "Decoration"}, nil)
		f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := valid()
		req.Images = []*multipart.FileHeader{imageUpload(t, "a.jpg", "image/jpeg"), imageUpload(t, "menu.pdf", "application/pdf")}

		_, err := f.svc.Create(policy.WithMemo(context.Background()), owner, req)
		assertCode(t, err, http.StatusBadRequest, "Only image files are allowed")
	})

	t.Run("stores images and snapshots the category name", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(categoryModel.Category{ID: categoryID, Name: "Decoration"}, nil)
		f.store.EXPECT().Save(gomock.Any(), constant.UploadDirProducts, gomock.Any(), "image/jpeg", []byte("image-bytes")).
			Return("/uploads/products/new.jpg", nil)
		f.products.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p model.Product) error {
			assert.Equal(t, vendorID, p.VendorID)
			assert.Equal(t, "Decoration", p.Category)
			assert.Equal(t, categoryID, *p.CategoryID)

			return nil
		})

		req := valid()
		req.Images = []*multipart.FileHeader{imageUpload(t, "stage.jpg", "image/jpeg")}

		res, err := f.svc.Create(policy.WithMemo(context.Background()), owner, req)
		require.NoError(t, err)
		assert.Equal(t, "Stage lighting", res.Name)
		assert.Equal(t, []string{"DMX", "Fog"}, res.Features)
		require.Len(t, res.Images, 1)
		assert.Equal(t, "/uploads/products/new.jpg", res.Images[0].URL)
	})

	t.Run("failed insert removes the stored images", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(categoryModel.Category{ID: categoryID, Name: "Decoration"}, nil)
		f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("/uploads/products/new.jpg", nil)
		f.products.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
		f.store.EXPECT().Delete(gomock.Any(), "/uploads/products/new.jpg").Return(nil)

		req := valid()
		req.Images = []*multipart.FileHeader{imageUpload(t, "stage.jpg", "image/jpeg")}

		_, err := f.svc.Create(policy.WithMemo(context.Background()), owner, req)
		require.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Product{}, nil)

		_, err := f.svc.Update(context.Background(), owner, productID, dto.UpdateProductRequest{})
		assertCode(t, err, http.StatusNotFound, "Product not found")
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Update(context.Background(), owner, "abc", dto.UpdateProductRequest{})
		assertCode(t, err, http.StatusNotFound, "Product not found")
	})

	t.Run("caller without vendor profile", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{}, nil)

		_, err := f.svc.Update(context.Background(), stranger, productID, dto.UpdateProductRequest{})
		assertCode(t, err, http.StatusNotFound, policy.MessageVendorProfileNotFound)
	})

	t.Run("other vendor", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{ID: "v-other"}, nil)
		f.products.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := f.svc.Update(context.Background(), stranger, productID, dto.UpdateProductRequest{Name: "Mine now"})
		assertCode(t, err, http.StatusForbidden, policy.MessageNotAuthorized)
	})

	t.Run("partial fields keep the images", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.products.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, 1500.0, fields[model.FieldPrice])
			assert.NotContains(t, fields, model.FieldName)
			assert.NotContains(t, fields, model.FieldImages)

			return nil
		})
		f.store.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.Update(context.Background(), owner, productID, dto.UpdateProductRequest{Price: price(1500)})
		require.NoError(t, err)
		assert.Equal(t, "Stage lighting", res.Name)
		assert.Len(t, res.Images, 2)
	})

	t.Run("category change snapshots the new name", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(categoryModel.Category{ID: categoryID, Name: "Lighting"}, nil)
		f.products.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, "Lighting", fields[model.FieldCategory])
			assert.Equal(t, categoryID, fields[model.FieldCategoryID])

			return nil
		})

		res, err := f.svc.Update(context.Background(), owner, productID, dto.UpdateProductRequest{CategoryID: categoryID})
		require.NoError(t, err)
		assert.Equal(t, "Lighting", res.Category)
	})

	t.Run("existing images merge with new uploads", func(t *testing.T) {
		f := newFixture(t)
		deleted := make(chan string, 1)

		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.store.EXPECT().Save(gomock.Any(), constant.UploadDirProducts, gomock.Any(), "image/png", gomock.Any()).Return("/uploads/products/c.png", nil)
		f.products.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			images, ok := fields[model.FieldImages].(model.Images)
			require.True(t, ok)
			require.Len(t, images, 2)
			assert.Equal(t, "/uploads/products/b.jpg", images[0].URL)
			assert.Equal(t, "/uploads/products/c.png", images[1].URL)

			return nil
		})
		f.store.EXPECT().Delete(gomock.Any(), "/uploads/products/a.jpg").DoAndReturn(func(_ context.Context, url string) error {
			deleted <- url

			return nil
		})

		res, err := f.svc.Update(context.Background(), owner, productID, dto.UpdateProductRequest{
			ExistingImages: []string{"/uploads/products/b.jpg", "/uploads/products/unknown.jpg"},
			Images:         []*multipart.FileHeader{imageUpload(t, "c.png", "image/png")},
		})
		require.NoError(t, err)
		assert.Len(t, res.Images, 2)

		select {
		case url := <-deleted:
			assert.Equal(t, "/uploads/products/a.jpg", url)
		case <-time.After(time.Second):
			t.Fatal("dropped image was not deleted")
		}
	})

	t.Run("too many images", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		uploads := make([]*multipart.FileHeader, 4)
		for i := range uploads {
			uploads[i] = imageUpload(t, "extra.jpg", "image/jpeg")
		}

		_, err := f.svc.Update(context.Background(), owner, productID, dto.UpdateProductRequest{Images: uploads})
		assertCode(t, err, http.StatusBadRequest, "Maximum 5 images allowed")
	})
}

func TestProductService_Delete(t *testing.T) {
	t.Run("other vendor", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{ID: "v-other"}, nil)
		f.products.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		err := f.svc.Delete(context.Background(), stranger, productID)
		assertCode(t, err, http.StatusForbidden, policy.MessageNotAuthorized)
	})

	t.Run("removes the row and its images", func(t *testing.T) {
		f := newFixture(t)
		deleted := make(chan string, 2)

		f.products.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedProduct(), nil)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownVendor(), nil)
		f.products.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)
		f.store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, url string) error {
			deleted <- url

			return errors.New("already gone")
		}).Times(2)

		require.NoError(t, f.svc.Delete(context.Background(), owner, productID))

		var urls []string
		for range 2 {
			select {
			case url := <-deleted:
				urls = append(urls, url)
			case <-time.After(time.Second):
				t.Fatal("image was not deleted")
			}
		}

		assert.ElementsMatch(t, []string{"/uploads/products/a.jpg", "/uploads/products/b.jpg"}, urls)
	})
}

func TestProductService_List(t *testing.T) {
	t.Run("unknown vendor gives the empty page", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{}, nil).Times(2)
		f.products.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.List(context.Background(), dto.ListProductsRequest{VendorID: vendorID})
		require.NoError(t, err)
		assert.Equal(t, dto.EmptyPage(), res)
	})

	t.Run("vendor filter that is not a uuid", func(t *testing.T) {
		f := newFixture(t)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		res, err := f.svc.List(context.Background(), dto.ListProductsRequest{VendorID: "deleted"})
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Equal(t, 1, res.CurrentPage)
	})

	t.Run("owner user id resolves to the vendor", func(t *testing.T) {
		f := newFixture(t)
		userID := "3e1f7a9c-0b2d-4c6e-8f10-a2b4c6d8e0f2"

		gomock.InOrder(
			f.vendors.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{}, nil),
			f.vendors.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{ID: vendorID}, nil),
		)
		f.products.EXPECT().Search(gomock.Any(), gomock.Any(), vendorID).Return([]model.ProductWithVendor{
			{Product: storedProduct(), VendorName: "Bloom Decor"},
		}, 1, nil)

		res, err := f.svc.List(context.Background(), dto.ListProductsRequest{VendorID: userID})
		require.NoError(t, err)
		require.Len(t, res.Products, 1)
		assert.Equal(t, "Bloom Decor", res.Products[0].VendorName)
	})

	t.Run("pagination", func(t *testing.T) {
		f := newFixture(t)
		f.products.EXPECT().Search(gomock.Any(), gomock.Any(), "").DoAndReturn(
			func(_ context.Context, req dto.ListProductsRequest, _ string) ([]model.ProductWithVendor, int, error) {
				assert.Equal(t, 2, req.Page)
				assert.Equal(t, 9, req.Limit)
				assert.Equal(t, model.SortRating, req.Sort)

				return []model.ProductWithVendor{{Product: storedProduct()}}, 19, nil
			})

		res, err := f.svc.List(context.Background(), dto.ListProductsRequest{Page: 2, Sort: "cheapest"})
		require.NoError(t, err)
		assert.Equal(t, 19, res.Total)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, 2, res.CurrentPage)
		assert.True(t, res.HasMore)
	})
}
