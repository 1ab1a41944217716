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
	"eventhub/infras/otel/mocks"
	bookingMocks "eventhub/internal/domains/booking/mocks"
	"eventhub/internal/domains/booking/model"
	"eventhub/internal/domains/booking/model/dto"
	"eventhub/internal/domains/booking/service"
	productMocks "eventhub/internal/domains/product/mocks"
	productModel "eventhub/internal/domains/product/model"
	vendorMocks "eventhub/internal/domains/vendors/mocks"
	vendorModel "eventhub/internal/domains/vendors/model"
	"eventhub/internal/policy"
	"eventhub/shared"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	eventMocks "eventhub/shared/event/mocks"
	"eventhub/shared/failure"
	txMocks "eventhub/shared/transaction/mocks"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	products *productMocks.MockProduct
	vendors  *vendorMocks.MockVendor
	svc      service.Booking
}

func newFixture(t *testing.T, strict bool) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Booking.StrictTransitions = strict

	f := fixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		products: productMocks.NewMockProduct(ctrl),
		vendors:  vendorMocks.NewMockVendor(ctrl),
	}
	f.svc = service.New(f.repo, f.products, f.vendors, policy.New(f.vendors, otel), txMocks.NewRunner(), publisher, cfg, otel)

	return f
}

const (
	productID      = "5f0c2c6e-0d7a-4b8e-9a53-2a4f1c1e7b10"
	bookingID      = "9b1d7c34-6f2e-4a0b-8c5d-3e7f2a1b4c90"
	otherVendorID  = "0c6e4d2a-8b1f-4e3a-a7d9-5b2c1f0e9d84"
	missingProduct = "e1a2b3c4-d5e6-4f70-8192-a3b4c5d6e7f8"
)

var (
	customer = caller.Caller{UserID: "u-customer", Role: constant.RoleCustomer}
	stranger = caller.Caller{UserID: "u-stranger", Role: constant.RoleCustomer}
	vendorU  = caller.Caller{UserID: "u-vendor", Role: constant.RoleVendor}
	admin    = caller.Caller{UserID: "u-admin", Role: constant.RoleAdmin}
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestBookingService_Create(t *testing.T) {
	product := productModel.Product{ID: productID, VendorID: "v-1", Price: 2500}

	tests := []struct {
		name     string
		req      dto.CreateBookingRequest
		setup    func(f fixture)
		wantCode int
		wantMsg  string
		validate func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name:     "missing product id",
			req:      dto.CreateBookingRequest{Date: "2025-06-01"},
			setup:    func(f fixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "guest count below one",
			req:      dto.CreateBookingRequest{ProductID: productID, Date: "2025-06-01", GuestCount: intPtr(0)},
			setup:    func(f fixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative amount",
			req:      dto.CreateBookingRequest{ProductID: productID, Date: "2025-06-01", Amount: floatPtr(-1)},
			setup:    func(f fixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "malformed product id never reaches the repository",
			req:  dto.CreateBookingRequest{ProductID: "p-1", Date: "2025-06-01"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Product not found",
		},
		{
			name: "unknown product is not inserted",
			req:  dto.CreateBookingRequest{ProductID: missingProduct, Date: "2025-06-01"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(productModel.Product{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Product not found",
		},
		{
			name: "unknown vendor override is not inserted",
			req:  dto.CreateBookingRequest{ProductID: productID, VendorID: otherVendorID, Date: "2025-06-01"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(product, nil)
				f.vendors.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  policy.MessageVendorNotFound,
		},
		{
			name: "vendor override is stored",
			req:  dto.CreateBookingRequest{ProductID: productID, VendorID: otherVendorID, Date: "2025-06-01"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(product, nil)
				f.vendors.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(vendorModel.Vendor{ID: otherVendorID}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ any, b model.Booking) error {
						assert.Equal(t, otherVendorID, b.VendorID)

						return nil
					})
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, otherVendorID, res.VendorID)
			},
		},
		{
			name: "unparsable date",
			req:  dto.CreateBookingRequest{ProductID: productID, Date: "01/06/2025"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(product, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "product lookup failure",
			req:  dto.CreateBookingRequest{ProductID: productID, Date: "2025-06-01"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(productModel.Product{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "defaults from product",
			req:  dto.CreateBookingRequest{ProductID: productID, Date: "2025-06-01T18:30:00Z"},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(product, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ any, b model.Booking) error {
						assert.Equal(t, "u-customer", b.UserID)
						assert.Equal(t, "v-1", b.VendorID)

						return nil
					})
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				assert.InDelta(t, 2500.0, res.Amount, 0)
				assert.Equal(t, model.StatusPending, res.Status)
				assert.Equal(t, model.DefaultEventType, res.EventType)
				assert.Equal(t, model.DefaultGuestCount, res.GuestCount)
			},
		},
		{
			name: "explicit amount is kept",
			req:  dto.CreateBookingRequest{ProductID: productID, Date: "2025-06-01", Amount: floatPtr(15000), GuestCount: intPtr(120)},
			setup: func(f fixture) {
				f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(product, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				assert.InDelta(t, 15000.0, res.Amount, 0)
				assert.Equal(t, 120, res.GuestCount)
				assert.Equal(t, "2025-06-01", res.Date)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.setup(f)

			res, err := f.svc.Create(context.Background(), customer, tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, err.Error())
				}

				return
			}

			require.NoError(t, err)
			tt.validate(t, res)
		})
	}
}

func TestBookingService_AmountIsSnapshot(t *testing.T) {
	f := newFixture(t, false)

	f.products.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(productModel.Product{ID: productID, VendorID: "v-1", Price: 100}, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Create(context.Background(), customer, dto.CreateBookingRequest{ProductID: productID, Date: "2025-06-01"})
	require.NoError(t, err)

	// later operations never read the product again
	stored := model.Booking{ID: res.ID, UserID: customer.UserID, Status: model.StatusPending, Amount: res.Amount}
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	reviewed, err := f.svc.Review(context.Background(), customer, res.ID, dto.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, reviewed.Amount, 0)
}

func detail(status string) model.BookingDetail {
	productVendor := "v-1"

	return model.BookingDetail{
		Booking: model.Booking{
			ID:        bookingID,
			UserID:    customer.UserID,
			VendorID:  "v-1",
			ProductID: productID,
			Status:    status,
		},
		ProductVendorID: &productVendor,
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		caller   caller.Caller
		id       string
		req      dto.UpdateStatusRequest
		setup    func(f fixture)
		wantCode int
		validate func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name:   "malformed id never reaches the repository",
			caller: customer,
			id:     "b-1",
			req:    dto.UpdateStatusRequest{Status: model.StatusCancelled},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "unknown booking",
			caller: customer,
			req:    dto.UpdateStatusRequest{Status: model.StatusCancelled},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.BookingDetail{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "non-party customer is forbidden and nothing changes",
			caller: stranger,
			req:    dto.UpdateStatusRequest{Status: model.StatusCancelled},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusPending), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "vendor of another business is forbidden",
			caller: vendorU,
			req:    dto.UpdateStatusRequest{Status: model.StatusConfirmed},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusPending), nil)
				f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{ID: "v-2", UserID: vendorU.UserID}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "owning vendor confirms",
			caller: vendorU,
			req:    dto.UpdateStatusRequest{Status: model.StatusConfirmed},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusPending), nil)
				f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{ID: "v-1", UserID: vendorU.UserID}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])
						assert.NotContains(t, fields, model.FieldCancellationReason)

						return nil
					})
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusConfirmed, res.Status)
			},
		},
		{
			name:   "customer cancels with reason",
			caller: customer,
			req:    dto.UpdateStatusRequest{Status: model.StatusCancelled, Reason: " Venue changed "},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusPending), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "Venue changed", fields[model.FieldCancellationReason])

						return nil
					})
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				require.NotNil(t, res.CancellationReason)
				assert.Equal(t, "Venue changed", *res.CancellationReason)
			},
		},
		{
			name:   "customer may not confirm",
			caller: customer,
			req:    dto.UpdateStatusRequest{Status: model.StatusConfirmed},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusPending), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "lenient cancel of a cancelled booking succeeds",
			caller: customer,
			req:    dto.UpdateStatusRequest{Status: model.StatusCancelled},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusCancelled), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusCancelled, res.Status)
			},
		},
		{
			name:   "strict cancel of a cancelled booking conflicts",
			strict: true,
			caller: customer,
			req:    dto.UpdateStatusRequest{Status: model.StatusCancelled},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusCancelled), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "strict admin completes a confirmed booking",
			strict: true,
			caller: admin,
			req:    dto.UpdateStatusRequest{Status: model.StatusCompleted},
			setup: func(f fixture) {
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail(model.StatusConfirmed), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			validate: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, model.StatusCompleted, res.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.strict)
			tt.setup(f)

			id := tt.id
			if id == "" {
				id = bookingID
			}

			res, err := f.svc.UpdateStatus(context.Background(), tt.caller, id, tt.req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusNotFound {
					assert.Equal(t, "Booking not found", err.Error())
				}

				return
			}

			require.NoError(t, err)
			tt.validate(t, res)
		})
	}
}

func TestBookingService_Review(t *testing.T) {
	booking := func(status string, rating *int) model.Booking {
		return model.Booking{ID: bookingID, UserID: customer.UserID, Status: status, Rating: rating}
	}

	tests := []struct {
		name     string
		strict   bool
		caller   caller.Caller
		id       string
		setup    func(f fixture)
		wantCode int
	}{
		{
			name:   "malformed id never reaches the repository",
			caller: customer,
			id:     "not-a-uuid",
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "unknown booking",
			caller: customer,
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "someone else's booking",
			caller: stranger,
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusCompleted, nil), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "lenient review of a pending booking",
			caller: customer,
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusPending, nil), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "strict review requires completion",
			strict: true,
			caller: customer,
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusConfirmed, nil), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "strict review only once",
			strict: true,
			caller: customer,
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusCompleted, intPtr(4)), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "strict review of a completed booking",
			strict: true,
			caller: customer,
			setup: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking(model.StatusCompleted, nil), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.strict)
			tt.setup(f)

			id := tt.id
			if id == "" {
				id = bookingID
			}

			res, err := f.svc.Review(context.Background(), tt.caller, id, dto.ReviewRequest{Rating: 5, Review: "Lovely decor"})
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantCode == http.StatusNotFound {
					assert.Equal(t, "Booking not found", err.Error())
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, res.Rating)
			assert.Equal(t, 5, *res.Rating)
			assert.Equal(t, "Lovely decor", *res.Review)
		})
	}
}

func TestBookingService_List(t *testing.T) {
	t.Run("vendor without profile", func(t *testing.T) {
		f := newFixture(t, false)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{}, nil)

		_, err := f.svc.List(context.Background(), vendorU)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("vendor sees direct and product bookings", func(t *testing.T) {
		f := newFixture(t, false)
		f.vendors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vendorModel.Vendor{ID: "v-1"}, nil)
		f.repo.EXPECT().GetAllDetails(gomock.Any(), gomock.Any(), service.VendorFilter("v-1")).
			Return([]model.BookingDetail{detail(model.StatusPending)}, nil)

		res, err := f.svc.List(context.Background(), vendorU)
		require.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("customer sees own bookings", func(t *testing.T) {
		f := newFixture(t, false)
		f.repo.EXPECT().GetAllDetails(gomock.Any(), gomock.Any(), shared.FilterByID(customer.UserID, model.FieldUserID, model.TableName)).
			Return(nil, nil)

		res, err := f.svc.List(context.Background(), customer)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		f := newFixture(t, false)
		f.repo.EXPECT().GetAllDetails(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.BookingDetail{detail(model.StatusPending), detail(model.StatusCompleted)}, nil)

		res, err := f.svc.List(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})
}
