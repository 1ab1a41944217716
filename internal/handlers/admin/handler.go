package admin

import (
	"eventhub/infras/otel"
	"eventhub/internal/domains/admin/service"
	vendorDto "eventhub/internal/domains/vendors/model/dto"
	vendorService "eventhub/internal/domains/vendors/service"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/validator"
	"eventhub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Admin
	vendors vendorService.Vendor
	otel    otel.Otel
}

func New(service service.Admin, vendors vendorService.Vendor, otel otel.Otel) Handler {
	return Handler{
		service: service,
		vendors: vendors,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/admin/stats", handler.GetStats)
	router.Get("/admin/users", handler.GetUsers)
	router.Get("/admin/vendors", handler.GetVendors)
	router.Put("/admin/vendors/{id}/status", handler.UpdateVendorStatus)
	router.Delete("/admin/vendors/{id}", handler.DeleteVendor)
	router.Get("/admin/bookings", handler.GetBookings)
	router.Get("/admin/bookings/export", handler.ExportBookings)
}

// GetStats returns platform totals
// @Summary Platform statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 403 {object} response.Error
// @Router /admin/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Stats(ctx, c)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get stats")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetUsers lists every account
// @Summary List users
// @Tags Admin
// @Produce json
// @Success 200 {array} userDto.UserResponse
// @Failure 403 {object} response.Error
// @Router /admin/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Users(ctx, c)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get users")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetVendors lists every vendor regardless of status
// @Summary List vendors
// @Tags Admin
// @Produce json
// @Success 200 {array} vendorDto.VendorResponse
// @Failure 403 {object} response.Error
// @Router /admin/vendors [get]
// @Security BearerAuth
func (handler *Handler) GetVendors(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVendors")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Vendors(ctx, c)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vendors")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateVendorStatus moderates a vendor
// @Summary Update vendor status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID"
// @Param request body vendorDto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} vendorDto.StatusResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /admin/vendors/{id}/status [put]
// @Security BearerAuth
func (handler *Handler) UpdateVendorStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVendorStatus")
	defer scope.End()

	req := vendorDto.UpdateStatusRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.vendors.UpdateStatus(ctx, c, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vendor status")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteVendor removes a vendor with its products, bookings and account
// @Summary Delete a vendor
// @Tags Admin
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} vendorDto.DeleteResponse
// @Failure 404 {object} response.Error
// @Router /admin/vendors/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteVendor(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteVendor")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.vendors.Delete(ctx, c, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vendor")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Vendor deleted")

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookings lists every booking
// @Summary List bookings
// @Tags Admin
// @Produce json
// @Success 200 {array} bookingDto.BookingDetailResponse
// @Failure 403 {object} response.Error
// @Router /admin/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdminBookings")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Bookings(ctx, c)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ExportBookings streams every booking as a spreadsheet
// @Summary Export bookings
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} response.Error
// @Router /admin/bookings/export [get]
// @Security BearerAuth
func (handler *Handler) ExportBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportBookings")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	file, err := handler.service.ExportBookings(ctx, c)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export bookings")

		response.WithError(writer, err)

		return
	}

	response.WithFile(writer, constant.ContentTypeXLSX, file.Name, file.Data)
}
