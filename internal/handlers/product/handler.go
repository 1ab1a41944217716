package product

import (
	"eventhub/infras/otel"
	"eventhub/internal/domains/product/model/dto"
	"eventhub/internal/domains/product/service"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"eventhub/transport/http/response"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formName           = "name"
	formDescription    = "description"
	formPrice          = "price"
	formCategory       = "category"
	formFeatures       = "features"
	formIsAvailable    = "is_available"
	formImages         = "images"
	formExistingImages = "existing_images"

	messageBadForm  = "Invalid multipart form"
	messageBadPrice = "Invalid price"
)

type Handler struct {
	service service.Product
	otel    otel.Otel
}

func New(service service.Product, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/products", handler.ListProducts)
	router.Post("/products", handler.CreateProduct)
	router.Put("/products/{id}", handler.UpdateProduct)
	router.Delete("/products/{id}", handler.DeleteProduct)
}

// ListProducts returns a page of the public catalog.
// @Summary List products
// @Tags Product
// @Produce json
// @Param vendorId query string false "Vendor ID"
// @Param category query string false "Category name or all"
// @Param search query string false "Search in name and description"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param sort query string false "price_asc, price_desc, newest or rating"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ProductPage
// @Failure 400 {object} response.Error
// @Router /products [get]
func (handler *Handler) ListProducts(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListProducts")
	defer scope.End()

	req := dto.ListProductsRequest{}

	if invalid := req.FromQuery(request.URL.Query()); invalid != "" {
		response.WithError(writer, failure.BadRequestFromString("Invalid "+invalid))

		return
	}

	res, err := handler.service.List(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list products")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CreateProduct adds a product to the caller's vendor.
// @Summary Create a product
// @Tags Product
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string true "Description"
// @Param price formData number true "Price"
// @Param category formData string true "Category ID"
// @Param features formData string false "JSON array or comma separated list"
// @Param is_available formData bool false "Available for booking"
// @Param images formData file false "Up to 5 images"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /products [post]
// @Security BearerAuth
func (handler *Handler) CreateProduct(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProduct")
	defer scope.End()

	form, err := parseForm(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse product form")

		response.WithError(writer, err)

		return
	}

	req := dto.CreateProductRequest{
		Name:        form.value(formName),
		Description: form.value(formDescription),
		Price:       form.price,
		CategoryID:  form.value(formCategory),
		Features:    dto.ParseFeatures(form.value(formFeatures)),
		IsAvailable: form.value(formIsAvailable) == "true",
		Images:      form.files,
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Create(ctx, c, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create product")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Product created")

	response.WithJSON(writer, http.StatusCreated, res)
}

// UpdateProduct applies a partial update to one of the caller's products.
// @Summary Update a product
// @Description Omitted fields are kept. existing_images lists the stored images to keep.
// @Tags Product
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Param name formData string false "Name"
// @Param description formData string false "Description"
// @Param price formData number false "Price"
// @Param category formData string false "Category ID"
// @Param features formData string false "JSON array or comma separated list"
// @Param is_available formData bool false "Available for booking"
// @Param existing_images formData string false "JSON array of image URLs to keep"
// @Param images formData file false "New images"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /products/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateProduct(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProduct")
	defer scope.End()

	form, err := parseForm(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse product form")

		response.WithError(writer, err)

		return
	}

	raw, present := form.lookup(formExistingImages)

	existing, err := dto.ParseExistingImages(raw, present)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.UpdateProductRequest{
		Name:           form.value(formName),
		Description:    form.value(formDescription),
		Price:          form.price,
		CategoryID:     form.value(formCategory),
		ExistingImages: existing,
		Images:         form.files,
	}

	if raw, ok := form.lookup(formFeatures); ok {
		req.Features = dto.ParseFeatures(raw)
		if req.Features == nil {
			req.Features = []string{}
		}
	}

	if raw, ok := form.lookup(formIsAvailable); ok && raw != "" {
		available := raw == "true"
		req.IsAvailable = &available
	}

	c, _ := caller.FromContext(ctx)

	res, err := handler.service.Update(ctx, c, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update product")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteProduct removes one of the caller's products.
// @Summary Delete a product
// @Tags Product
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /products/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProduct(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProduct")
	defer scope.End()

	c, _ := caller.FromContext(ctx)

	if err := handler.service.Delete(ctx, c, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete product")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, service.MessageDeleted)
}

type productForm struct {
	values map[string][]string
	files  []*multipart.FileHeader
	price  *float64
}

func (f productForm) lookup(key string) (string, bool) {
	values, ok := f.values[key]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}

func (f productForm) value(key string) string {
	value, _ := f.lookup(key)

	return strings.TrimSpace(value)
}

func parseForm(request *http.Request) (productForm, error) {
	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return productForm{}, failure.BadRequestFromString(messageBadForm) //nolint:wrapcheck
	}

	form := productForm{
		values: request.MultipartForm.Value,
		files:  request.MultipartForm.File[formImages],
	}

	if raw := form.value(formPrice); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return productForm{}, failure.BadRequestFromString(messageBadPrice) //nolint:wrapcheck
		}

		form.price = &price
	}

	return form, nil
}
