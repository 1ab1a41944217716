package admin_test

import (
	"bytes"
	otelMocks "eventhub/infras/otel/mocks"
	"eventhub/internal/domains/admin/model/dto"
	adminMocks "eventhub/internal/domains/admin/service/mocks"
	vendorDto "eventhub/internal/domains/vendors/model/dto"
	vendorMocks "eventhub/internal/domains/vendors/service/mocks"
	"eventhub/internal/handlers/admin"
	"eventhub/internal/policy"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var adminCaller = caller.Caller{UserID: "admin-1", Role: constant.RoleAdmin}

type fixture struct {
	router  chi.Router
	admin   *adminMocks.MockAdmin
	vendors *vendorMocks.MockVendor
	spans   *otelMocks.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		admin:   adminMocks.NewMockAdmin(ctrl),
		vendors: vendorMocks.NewMockVendor(ctrl),
		spans:   otelMocks.NewRecorder(),
	}

	handler := admin.New(f.admin, f.vendors, f.spans)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(caller.WithCaller(r.Context(), adminCaller)))
		})
	})
	handler.Router(router)

	f.router = router

	return f
}

func (f fixture) do(request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)

	return recorder
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)

	f.admin.EXPECT().Stats(gomock.Any(), adminCaller).Return(dto.StatsResponse{
		UserCount:     4,
		VendorCount:   2,
		BookingCount:  3,
		BookingStatus: dto.BookingStatusCount{Pending: 2, Completed: 1},
	}, nil)

	recorder := f.do(httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{
		"user_count": 4,
		"vendor_count": 2,
		"booking_count": 3,
		"booking_status": {"pending": 2, "confirmed": 0, "completed": 1, "cancelled": 0}
	}`, recorder.Body.String())
}

func TestGetUsersForbidden(t *testing.T) {
	f := newFixture(t)

	f.admin.EXPECT().Users(gomock.Any(), adminCaller).Return(nil, failure.Forbidden(policy.MessageAdminRequired))

	recorder := f.do(httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.JSONEq(t, `{"message":"`+policy.MessageAdminRequired+`"}`, recorder.Body.String())

	span := f.spans.Scope(constant.OtelHandlerScopeName + ".GetUsers")
	require.NotNil(t, span)
	assert.Len(t, span.Errors, 1)
	assert.True(t, span.Ended)
}

func TestExportBookings(t *testing.T) {
	f := newFixture(t)

	f.admin.EXPECT().ExportBookings(gomock.Any(), adminCaller).Return(dto.ExportFile{
		Name: "bookings_2026-10-15.xlsx",
		Data: []byte("PK\x03\x04"),
	}, nil)

	recorder := f.do(httptest.NewRequest(http.MethodGet, "/admin/bookings/export", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, constant.ContentTypeXLSX, recorder.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, `attachment; filename="bookings_2026-10-15.xlsx"`, recorder.Header().Get(constant.RequestHeaderContentDisposition))
	assert.Equal(t, []byte("PK\x03\x04"), recorder.Body.Bytes())
}

func TestUpdateVendorStatus(t *testing.T) {
	f := newFixture(t)

	f.vendors.EXPECT().
		UpdateStatus(gomock.Any(), adminCaller, "v-1", vendorDto.UpdateStatusRequest{Status: "active"}).
		Return(vendorDto.StatusResponse{
			Message: "Vendor status updated to active",
			Vendor:  vendorDto.VendorSummary{ID: "v-1", Name: "Bloom", Status: "active"},
		}, nil)

	request := httptest.NewRequest(http.MethodPut, "/admin/vendors/v-1/status", bytes.NewBufferString(`{"status":"active"}`))

	recorder := f.do(request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"active"`)
}

func TestDeleteVendorNotFound(t *testing.T) {
	f := newFixture(t)

	f.vendors.EXPECT().Delete(gomock.Any(), adminCaller, "missing").Return(vendorDto.DeleteResponse{}, failure.NotFound(policy.MessageVendorNotFound))

	recorder := f.do(httptest.NewRequest(http.MethodDelete, "/admin/vendors/missing", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
