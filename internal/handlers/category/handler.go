package category

import (
	"eventhub/infras/otel"
	"eventhub/internal/domains/category/model/dto"
	"eventhub/internal/domains/category/service"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/validator"
	"eventhub/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Category
	otel    otel.Otel
}

func New(service service.Category, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/categories", handler.ListCategories)

	router.Get("/admin/categories", handler.AdminListCategories)
	router.Post("/admin/categories", handler.CreateCategory)
	router.Put("/admin/categories/{id}", handler.UpdateCategory)
	router.Delete("/admin/categories/{id}", handler.DeleteCategory)
}

// ListCategories returns the active categories.
// @Summary List categories
// @Tags Category
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (handler *Handler) ListCategories(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListCategories")
	defer scope.End()

	res, err := handler.service.List(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list categories")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// AdminListCategories returns every category with its vendor count.
// @Summary List all categories
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.AdminCategoryResponse
// @Failure 403 {object} response.Error
// @Router /admin/categories [get]
// @Security BearerAuth
func (handler *Handler) AdminListCategories(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdminListCategories")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.AdminList(ctx, c)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list categories")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CreateCategory adds a category.
// @Summary Create a category
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Create Category Request"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /admin/categories [post]
// @Security BearerAuth
func (handler *Handler) CreateCategory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCategory")
	defer scope.End()

	req := dto.CreateCategoryRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Create(ctx, c, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create category")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

// UpdateCategory applies a partial update to a category.
// @Summary Update a category
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Update Category Request"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /admin/categories/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateCategory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCategory")
	defer scope.End()

	req := dto.UpdateCategoryRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Update(ctx, c, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update category")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteCategory removes a category, or deactivates it while vendors use it.
// @Summary Delete a category
// @Tags Admin
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.DeleteCategoryResponse
// @Failure 404 {object} response.Error
// @Router /admin/categories/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCategory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCategory")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Delete(ctx, c, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete category")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
