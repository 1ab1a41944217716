package user

import (
	"eventhub/infras/otel"
	"eventhub/internal/domains/user/model/dto"
	"eventhub/internal/domains/user/service"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/validator"
	"eventhub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/users/profile", handler.GetProfile)
	router.Put("/users/profile", handler.UpdateProfile)
}

// GetProfile returns the caller's account.
// @Summary Get own profile
// @Tags User
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /users/profile [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserProfile")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Get(ctx, c.UserID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateProfile handles a partial update of the caller's account.
// @Summary Update own profile
// @Description Update name, email or phone. Email must stay unique.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /users/profile [put]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateUserProfile")
	defer scope.End()

	req := dto.UpdateProfileRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.UpdateProfile(ctx, c, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update user profile")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("User profile updated")

	response.WithJSON(writer, http.StatusOK, res)
}
