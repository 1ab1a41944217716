package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"eventhub/config"
	"eventhub/infras/jwt"
	otelMocks "eventhub/infras/otel/mocks"
	storageMocks "eventhub/infras/storage/mocks"
	adminService "eventhub/internal/domains/admin/service"
	authDto "eventhub/internal/domains/auth/model/dto"
	authService "eventhub/internal/domains/auth/service"
	bookingMocks "eventhub/internal/domains/booking/mocks"
	bookingModel "eventhub/internal/domains/booking/model"
	bookingDto "eventhub/internal/domains/booking/model/dto"
	bookingService "eventhub/internal/domains/booking/service"
	categoryMocks "eventhub/internal/domains/category/mocks"
	categoryModel "eventhub/internal/domains/category/model"
	categoryService "eventhub/internal/domains/category/service"
	productMocks "eventhub/internal/domains/product/mocks"
	productModel "eventhub/internal/domains/product/model"
	productDto "eventhub/internal/domains/product/model/dto"
	productService "eventhub/internal/domains/product/service"
	userMocks "eventhub/internal/domains/user/mocks"
	userModel "eventhub/internal/domains/user/model"
	userService "eventhub/internal/domains/user/service"
	vendorMocks "eventhub/internal/domains/vendors/mocks"
	vendorModel "eventhub/internal/domains/vendors/model"
	vendorDto "eventhub/internal/domains/vendors/model/dto"
	vendorService "eventhub/internal/domains/vendors/service"
	adminHandler "eventhub/internal/handlers/admin"
	authHandler "eventhub/internal/handlers/auth"
	bookingHandler "eventhub/internal/handlers/booking"
	categoryHandler "eventhub/internal/handlers/category"
	productHandler "eventhub/internal/handlers/product"
	userHandler "eventhub/internal/handlers/user"
	vendorHandler "eventhub/internal/handlers/vendors"
	"eventhub/internal/policy"
	"eventhub/permissions"
	"eventhub/shared/cache"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/event"
	txMocks "eventhub/shared/transaction/mocks"
	"eventhub/transport/http/middleware"
	"eventhub/transport/http/router"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const categoryID = "3f1e2d4c-5b6a-4978-8a9b-0c1d2e3f4a5b"

// world is the row state behind the repository mocks.
type world struct {
	users    map[string]userModel.User
	vendors  map[string]vendorModel.Vendor
	products map[string]productModel.Product
	bookings map[string]bookingModel.Booking
}

func flatten(group gDto.FilterGroup) []gDto.Filter {
	var found []gDto.Filter

	for _, item := range group.Filters {
		switch f := item.(type) {
		case gDto.Filter:
			found = append(found, f)
		case gDto.FilterGroup:
			found = append(found, flatten(f)...)
		}
	}

	return found
}

func valueOf(group gDto.FilterGroup, field string) string {
	for _, f := range flatten(group) {
		if f.Field == field {
			return fmt.Sprint(f.Value)
		}
	}

	return ""
}

func (w *world) vendor(filter gDto.FilterGroup) vendorModel.Vendor {
	id, userID := valueOf(filter, vendorModel.FieldID), valueOf(filter, vendorModel.FieldUserID)

	for _, v := range w.vendors {
		if (id != "" && v.ID == id) || (userID != "" && v.UserID == userID) {
			return v
		}
	}

	return vendorModel.Vendor{}
}

func (w *world) vendorOf(userID string) vendorModel.Vendor {
	return w.vendor(gDto.FilterGroup{Filters: []any{gDto.Filter{Field: vendorModel.FieldUserID, Value: userID}}})
}

func (w *world) productVendor(b bookingModel.Booking) string {
	return w.products[b.ProductID].VendorID
}

// bookingMatches ORs the filters, which covers both the single owner
// filter and the direct-or-product vendor filter.
func (w *world) bookingMatches(b bookingModel.Booking, filters []gDto.Filter) bool {
	if len(filters) == 0 {
		return true
	}

	for _, f := range filters {
		value := fmt.Sprint(f.Value)

		switch {
		case f.Field == bookingModel.FieldID && b.ID == value,
			f.Field == bookingModel.FieldUserID && b.UserID == value,
			f.Field == bookingModel.FieldVendorID && f.Table == bookingModel.TableName && b.VendorID == value,
			f.Field == productModel.FieldVendorID && f.Table == productModel.TableName && w.productVendor(b) == value:
			return true
		}
	}

	return false
}

func (w *world) detail(b bookingModel.Booking) bookingModel.BookingDetail {
	detail := bookingModel.BookingDetail{Booking: b}

	if product, ok := w.products[b.ProductID]; ok {
		detail.ProductName = &product.Name
		detail.ProductPrice = &product.Price
		detail.ProductVendorID = &product.VendorID
	}

	if user, ok := w.users[b.UserID]; ok {
		detail.CustomerName = &user.Name
		detail.CustomerEmail = &user.Email
	}

	if vendor, ok := w.vendors[b.VendorID]; ok {
		detail.VendorName = &vendor.Name
	}

	return detail
}

func (w *world) expect(
	users *userMocks.MockUser,
	vendors *vendorMocks.MockVendor,
	products *productMocks.MockProduct,
	categories *categoryMocks.MockCategory,
	bookings *bookingMocks.MockBooking,
) {
	users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
	users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, user userModel.User) error {
			w.users[user.ID] = user

			return nil
		}).AnyTimes()
	users.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int64, error) {
			id := valueOf(filter, userModel.FieldID)
			if _, ok := w.users[id]; !ok {
				return 0, nil
			}

			delete(w.users, id)

			return 1, nil
		}).AnyTimes()

	vendors.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, vendor vendorModel.Vendor) error {
			w.vendors[vendor.ID] = vendor

			return nil
		}).AnyTimes()
	vendors.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (vendorModel.Vendor, error) {
			return w.vendor(filter), nil
		}).AnyTimes()
	vendors.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (vendorModel.Vendor, error) {
			return w.vendor(filter), nil
		}).AnyTimes()
	vendors.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int64, error) {
			id := valueOf(filter, vendorModel.FieldID)
			if _, ok := w.vendors[id]; !ok {
				return 0, nil
			}

			delete(w.vendors, id)

			return 1, nil
		}).AnyTimes()

	categories.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (categoryModel.Category, error) {
			if valueOf(filter, categoryModel.FieldID) != categoryID {
				return categoryModel.Category{}, nil
			}

			return categoryModel.Category{ID: categoryID, Name: "Lighting", IsActive: true}, nil
		}).AnyTimes()

	products.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, product productModel.Product) error {
			w.products[product.ID] = product

			return nil
		}).AnyTimes()
	products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (productModel.Product, error) {
			return w.products[valueOf(filter, productModel.FieldID)], nil
		}).AnyTimes()
	products.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]productModel.Product, error) {
			vendorID := valueOf(filter, productModel.FieldVendorID)

			var rows []productModel.Product

			for _, p := range w.products {
				if p.VendorID == vendorID {
					rows = append(rows, p)
				}
			}

			return rows, nil
		}).AnyTimes()
	products.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ productDto.ListProductsRequest, vendorID string) ([]productModel.ProductWithVendor, int, error) {
			var rows []productModel.ProductWithVendor

			for _, p := range w.products {
				if vendorID == "" || p.VendorID == vendorID {
					rows = append(rows, productModel.ProductWithVendor{Product: p, VendorName: w.vendors[p.VendorID].Name})
				}
			}

			return rows, len(rows), nil
		}).AnyTimes()
	products.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int64, error) {
			vendorID := valueOf(filter, productModel.FieldVendorID)

			var deleted int64

			for id, p := range w.products {
				if p.VendorID == vendorID {
					delete(w.products, id)
					deleted++
				}
			}

			return deleted, nil
		}).AnyTimes()

	bookings.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking bookingModel.Booking) error {
			w.bookings[booking.ID] = booking

			return nil
		}).AnyTimes()
	bookings.EXPECT().GetDetail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bookingModel.BookingDetail, error) {
			booking, ok := w.bookings[valueOf(filter, bookingModel.FieldID)]
			if !ok {
				return bookingModel.BookingDetail{}, nil
			}

			return w.detail(booking), nil
		}).AnyTimes()
	bookings.EXPECT().GetAllDetails(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) ([]bookingModel.BookingDetail, error) {
			filters := flatten(filter)

			var rows []bookingModel.BookingDetail

			for _, b := range w.bookings {
				if w.bookingMatches(b, filters) {
					rows = append(rows, w.detail(b))
				}
			}

			return rows, nil
		}).AnyTimes()
	bookings.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			id := valueOf(filter, bookingModel.FieldID)
			booking := w.bookings[id]

			if status, ok := fields[bookingModel.FieldStatus].(string); ok {
				booking.Status = status
			}

			w.bookings[id] = booking

			return nil
		}).AnyTimes()
	bookings.EXPECT().DeleteForVendorTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, vendorID, userID string) (int64, error) {
			var deleted int64

			for id, b := range w.bookings {
				if b.VendorID == vendorID || w.productVendor(b) == vendorID || (userID != "" && b.UserID == userID) {
					delete(w.bookings, id)
					deleted++
				}
			}

			return deleted, nil
		}).AnyTimes()
}

type app struct {
	world  *world
	jwt    jwt.JWT
	router chi.Router
}

// newApp wires the real services, middleware and routes over repository
// mocks backed by an in-memory world, mirroring di.InitializeService.
func newApp(t *testing.T) *app {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.JWT.Secret = "scenario-secret"

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	redisCache := cache.NewRedisCache(client, otel)

	w := &world{
		users:    map[string]userModel.User{},
		vendors:  map[string]vendorModel.Vendor{},
		products: map[string]productModel.Product{},
		bookings: map[string]bookingModel.Booking{},
	}

	users := userMocks.NewMockUser(ctrl)
	vendors := vendorMocks.NewMockVendor(ctrl)
	products := productMocks.NewMockProduct(ctrl)
	categories := categoryMocks.NewMockCategory(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)
	w.expect(users, vendors, products, categories, bookings)

	store := storageMocks.NewMockFileStore(ctrl)
	publisher := event.New(cfg, nil, otel)
	runner := txMocks.NewRunner()
	jwtService := jwt.New(cfg)
	policyPolicy := policy.New(vendors, otel)

	auth := authService.New(users, vendors, runner, jwtService, redisCache, cfg, otel)
	vendor := vendorService.New(vendorService.Repositories{
		Vendor:   vendors,
		Product:  products,
		Booking:  bookings,
		User:     users,
		Category: categories,
	}, policyPolicy, runner, store, publisher, cfg, redisCache, otel)

	handlers := router.DomainHandlers{
		Auth:     authHandler.New(auth, cfg, otel),
		User:     userHandler.New(userService.New(users, cfg, redisCache, otel), otel),
		Vendor:   vendorHandler.New(vendor, otel),
		Product:  productHandler.New(productService.New(products, vendors, categories, policyPolicy, store, cfg, otel), otel),
		Booking:  bookingHandler.New(bookingService.New(bookings, products, vendors, policyPolicy, runner, publisher, cfg, otel), otel),
		Category: categoryHandler.New(categoryService.New(categories, vendors, policyPolicy, cfg, redisCache, otel), otel),
		Admin:    adminHandler.New(adminService.New(users, vendors, bookings, policyPolicy, cfg, otel), vendor, otel),
	}

	routes := router.New(handlers, middleware.NewAuthRoleMiddleware(jwtService, auth, otel, permissions.Get(), cfg))
	mux := chi.NewRouter()
	routes.SetupRoutes(mux)

	return &app{world: w, jwt: jwtService, router: mux}
}

func (a *app) do(t *testing.T, method, target, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, target, body)
	if contentType != "" {
		request.Header.Set(constant.RequestHeaderContentType, contentType)
	}

	if token != "" {
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, request)

	return recorder
}

func (a *app) register(t *testing.T, name, email, role string) authDto.RegisterResponse {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":"secret1","phone":"9876543210","role":%q}`, name, email, role)
	recorder := a.do(t, http.MethodPost, "/register", "", strings.NewReader(body), constant.ContentTypeJSON)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var res authDto.RegisterResponse
	decode(t, recorder, &res)
	require.NotEmpty(t, res.Token)

	return res
}

func (a *app) createProduct(t *testing.T, token string) productDto.ProductResponse {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range map[string]string{
		"name":         "Stage lighting",
		"description":  "Warm white rig for halls up to 300 guests",
		"price":        "1200",
		"category":     categoryID,
		"is_available": "true",
	} {
		require.NoError(t, writer.WriteField(key, value))
	}

	require.NoError(t, writer.Close())

	recorder := a.do(t, http.MethodPost, "/products", token, body, writer.FormDataContentType())
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var res productDto.ProductResponse
	decode(t, recorder, &res)

	return res
}

func (a *app) book(t *testing.T, token, productID string) bookingDto.BookingResponse {
	t.Helper()

	body := `{"product_id":"` + productID + `","date":"2026-12-24","guest_count":80}`
	recorder := a.do(t, http.MethodPost, "/bookings", token, strings.NewReader(body), constant.ContentTypeJSON)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var res bookingDto.BookingResponse
	decode(t, recorder, &res)

	return res
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target))
}

func TestBookingLifecycle(t *testing.T) {
	a := newApp(t)

	vendorUser := a.register(t, "Bloom Decor", "bloom@example.com", constant.RoleVendor)
	vendorProfile := a.world.vendorOf(vendorUser.User.ID)
	require.NotEmpty(t, vendorProfile.ID)
	assert.Equal(t, vendorModel.StatusPending, vendorProfile.Status)

	product := a.createProduct(t, vendorUser.Token)
	assert.Equal(t, vendorProfile.ID, product.VendorID)

	customer := a.register(t, "Asha Rao", "asha@example.com", constant.RoleCustomer)

	booking := a.book(t, customer.Token, product.ID)
	assert.Equal(t, bookingModel.StatusPending, booking.Status)
	assert.Equal(t, vendorProfile.ID, booking.VendorID)
	assert.Equal(t, customer.User.ID, booking.UserID)
	assert.InDelta(t, 1200.0, booking.Amount, 0)

	recorder := a.do(t, http.MethodGet, "/bookings", customer.Token, nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var mine []bookingDto.BookingDetailResponse
	decode(t, recorder, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, booking.ID, mine[0].ID)
	require.NotNil(t, mine[0].Product)
	assert.Equal(t, "Stage lighting", mine[0].Product.Name)

	recorder = a.do(t, http.MethodPut, "/bookings/"+booking.ID+"/status", customer.Token,
		strings.NewReader(`{"status":"confirmed"}`), constant.ContentTypeJSON)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = a.do(t, http.MethodPut, "/bookings/"+booking.ID+"/status", vendorUser.Token,
		strings.NewReader(`{"status":"confirmed"}`), constant.ContentTypeJSON)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var confirmed bookingDto.BookingResponse
	decode(t, recorder, &confirmed)
	assert.Equal(t, bookingModel.StatusConfirmed, confirmed.Status)

	recorder = a.do(t, http.MethodGet, "/bookings", vendorUser.Token, nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var incoming []bookingDto.BookingDetailResponse
	decode(t, recorder, &incoming)
	require.Len(t, incoming, 1)
	assert.Equal(t, booking.ID, incoming[0].ID)
	assert.Equal(t, bookingModel.StatusConfirmed, incoming[0].Status)
	require.NotNil(t, incoming[0].Customer)
	assert.Equal(t, "Asha Rao", incoming[0].Customer.Name)

	time.Sleep(10 * time.Millisecond)
}

func TestAdminVendorDeletion(t *testing.T) {
	a := newApp(t)

	vendorUser := a.register(t, "Bloom Decor", "bloom@example.com", constant.RoleVendor)
	vendorID := a.world.vendorOf(vendorUser.User.ID).ID
	product := a.createProduct(t, vendorUser.Token)

	customer := a.register(t, "Asha Rao", "asha@example.com", constant.RoleCustomer)
	a.book(t, customer.Token, product.ID)

	recorder := a.do(t, http.MethodDelete, "/admin/vendors/"+vendorID, vendorUser.Token, nil, "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	admin, err := a.jwt.Generate("a2c4e6f8-1b3d-4f5a-9c7e-0d2b4f6a8c1e", "admin@example.com", constant.RoleAdmin, time.Hour)
	require.NoError(t, err)

	recorder = a.do(t, http.MethodDelete, "/admin/vendors/"+vendorID, admin.Value, nil, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var deleted vendorDto.DeleteResponse
	decode(t, recorder, &deleted)
	assert.Equal(t, vendorService.MessageVendorDeleted, deleted.Message)
	assert.Equal(t, vendorDto.DeleteDetails{
		ProductsDeleted: 1,
		BookingsDeleted: 1,
		UserDeleted:     true,
		VendorDeleted:   true,
	}, deleted.Details)

	assert.Empty(t, a.world.products)
	assert.Empty(t, a.world.bookings)
	assert.NotContains(t, a.world.users, vendorUser.User.ID)
	assert.Contains(t, a.world.users, customer.User.ID)

	recorder = a.do(t, http.MethodGet, "/products?vendorId="+vendorID, "", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var page productDto.ProductPage
	decode(t, recorder, &page)
	assert.Equal(t, productDto.EmptyPage(), page)

	recorder = a.do(t, http.MethodGet, "/vendors/"+vendorID, "", nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"message":"`+policy.MessageVendorNotFound+`"}`, recorder.Body.String())

	time.Sleep(10 * time.Millisecond)
}
