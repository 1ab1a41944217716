package vendors

import (
	"eventhub/infras/otel"
	"eventhub/internal/domains/vendors/model/dto"
	"eventhub/internal/domains/vendors/service"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"eventhub/shared/validator"
	"eventhub/transport/http/response"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formProfileImage = "profile_image"
	messageBadForm   = "Invalid multipart form"
)

type Handler struct {
	service service.Vendor
	otel    otel.Otel
}

func New(service service.Vendor, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/vendor/add", handler.CreateVendor)
	router.Get("/vendor/all", handler.ListVendors)
	router.Put("/vendor/{id}", handler.UpdateVendor)
	router.Delete("/vendor/{id}", handler.RemoveVendor)

	router.Get("/vendors", handler.ListVendors)
	router.Get("/vendors/profile", handler.GetProfile)
	router.Put("/vendors/profile", handler.UpdateProfile)
	router.Put("/vendors/profile/image", handler.UpdateProfileImage)
	router.Get("/vendors/{id}", handler.GetVendor)
}

// CreateVendor creates a vendor profile for the caller.
// @Summary Add a vendor profile
// @Tags Vendor
// @Accept json
// @Produce json
// @Param request body dto.CreateVendorRequest true "Create Vendor Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /vendor/add [post]
// @Security BearerAuth
func (handler *Handler) CreateVendor(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateVendor")
	defer scope.End()

	req := dto.CreateVendorRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	if err := handler.service.Create(ctx, c, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create vendor")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, service.MessageServiceAdded)
}

// ListVendors lists every vendor profile.
// @Summary List vendors
// @Tags Vendor
// @Produce json
// @Success 200 {array} dto.VendorResponse
// @Failure 500 {object} response.Error
// @Router /vendors [get]
func (handler *Handler) ListVendors(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListVendors")
	defer scope.End()

	res, err := handler.service.List(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list vendors")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetVendor returns a vendor with its products.
// @Summary Get a vendor
// @Tags Vendor
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} dto.VendorDetailResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /vendors/{id} [get]
func (handler *Handler) GetVendor(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVendor")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetProfile returns the caller's vendor profile.
// @Summary Get own vendor profile
// @Tags Vendor
// @Produce json
// @Success 200 {object} dto.VendorResponse
// @Failure 404 {object} response.Error
// @Router /vendors/profile [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVendorProfile")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.GetProfile(ctx, c)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateProfile updates the caller's vendor profile.
// @Summary Update own vendor profile
// @Tags Vendor
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} dto.VendorResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /vendors/profile [put]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVendorProfile")
	defer scope.End()

	req := dto.UpdateProfileRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.UpdateProfile(ctx, c, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vendor profile")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateProfileImage replaces the caller's profile image.
// @Summary Upload vendor profile image
// @Tags Vendor
// @Accept multipart/form-data
// @Produce json
// @Param profile_image formData file true "Image (jpg, jpeg, png, gif)"
// @Success 200 {object} dto.ProfileImageResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /vendors/profile/image [put]
// @Security BearerAuth
func (handler *Handler) UpdateProfileImage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVendorProfileImage")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, failure.BadRequestFromString(messageBadForm))

		return
	}

	var file *multipart.FileHeader
	if files := request.MultipartForm.File[formProfileImage]; len(files) > 0 {
		file = files[0]
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.UpdateProfileImage(ctx, c, file)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update profile image")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateVendor is the legacy owner update of a vendor.
// @Summary Update a vendor (legacy)
// @Tags Vendor
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID"
// @Param request body dto.UpdateVendorRequest true "Update Vendor Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /vendor/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateVendor(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVendor")
	defer scope.End()

	req := dto.UpdateVendorRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	if err := handler.service.Update(ctx, c, chi.URLParam(request, constant.RequestParamID), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vendor")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, service.MessageServiceUpdated)
}

// RemoveVendor is the legacy owner delete of a vendor.
// @Summary Delete a vendor (legacy)
// @Tags Vendor
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /vendor/{id} [delete]
// @Security BearerAuth
func (handler *Handler) RemoveVendor(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveVendor")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	if err := handler.service.Remove(ctx, c, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vendor")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, service.MessageServiceDeleted)
}
