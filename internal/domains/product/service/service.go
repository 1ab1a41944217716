package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/otel"
	"eventhub/infras/storage"
	categoryModel "eventhub/internal/domains/category/model"
	categoryRepo "eventhub/internal/domains/category/repository"
	"eventhub/internal/domains/product/model"
	"eventhub/internal/domains/product/model/dto"
	"eventhub/internal/domains/product/repository"
	vendorModel "eventhub/internal/domains/vendors/model"
	vendorRepo "eventhub/internal/domains/vendors/repository"
	"eventhub/internal/policy"
	"eventhub/shared"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"eventhub/shared/timezone"
	"eventhub/shared/validator"
	"fmt"
	"mime/multipart"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	messageInvalidCategory = "Invalid category"
	messageNotFound        = "Product not found"
	messageTooManyImages   = "Maximum %d images allowed"
	MessageDeleted         = "Product deleted successfully"
)

type Product interface {
	Create(ctx context.Context, c caller.Caller, req dto.CreateProductRequest) (dto.ProductResponse, error)
	Update(ctx context.Context, c caller.Caller, id string, req dto.UpdateProductRequest) (dto.ProductResponse, error)
	Delete(ctx context.Context, c caller.Caller, id string) error
	List(ctx context.Context, req dto.ListProductsRequest) (dto.ProductPage, error)
}

type serviceImpl struct {
	repo         repository.Product
	vendorRepo   vendorRepo.Vendor
	categoryRepo categoryRepo.Category
	policy       policy.Policy
	store        storage.FileStore
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Product,
	vendorRepo vendorRepo.Vendor,
	categoryRepo categoryRepo.Category,
	policy policy.Policy,
	store storage.FileStore,
	cfg *config.Config,
	otel otel.Otel,
) Product {
	return &serviceImpl{
		repo:         repo,
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		policy:       policy,
		store:        store,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, c caller.Caller, req dto.CreateProductRequest) (res dto.ProductResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateProduct")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionProductCreate, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	vendor, err := s.policy.VendorOf(ctx, c.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve vendor")

		return res, fmt.Errorf("failed to resolve vendor: %w", err)
	}

	category, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return res, err
	}

	images, err := s.saveImages(ctx, req.Images)
	if err != nil {
		return res, err
	}

	product := req.ToModel(vendor.ID, category.Name, c.Actor(), images)

	if err = s.repo.Insert(ctx, product); err != nil {
		log.Error().Err(err).Msg("failed to create product")
		storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, urlsOf(images)...)

		return res, fmt.Errorf("failed to create product: %w", err)
	}

	res.FromModel(product)

	return res, nil
}

// Update applies a partial edit. Images missing from ExistingImages are
// dropped and removed from the store once the row is written.
func (s *serviceImpl) Update(ctx context.Context, c caller.Caller, id string, req dto.UpdateProductRequest) (res dto.ProductResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProduct")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	product, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionProductUpdate, policy.Resource{VendorID: product.VendorID}); err != nil {
		return res, err //nolint:wrapcheck
	}

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: c.Actor(),
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		fields[model.FieldName] = name
		product.Name = name
	}

	if description := strings.TrimSpace(req.Description); description != "" {
		fields[model.FieldDescription] = description
		product.Description = description
	}

	if req.Price != nil {
		fields[model.FieldPrice] = *req.Price
		product.Price = *req.Price
	}

	if req.Features != nil {
		product.Features = pq.StringArray(dto.CleanFeatures(req.Features))
		fields[model.FieldFeatures] = product.Features
	}

	if req.IsAvailable != nil {
		fields[model.FieldIsAvailable] = *req.IsAvailable
		product.IsAvailable = *req.IsAvailable
	}

	if req.CategoryID != "" {
		category, err := s.category(ctx, req.CategoryID)
		if err != nil {
			return res, err
		}

		fields[model.FieldCategoryID] = category.ID
		fields[model.FieldCategory] = category.Name
		product.CategoryID = &category.ID
		product.Category = category.Name
	}

	kept, removed := keepImages(product.Images, req.ExistingImages)
	if len(kept)+len(req.Images) > storage.MaxFiles(s.cfg) {
		return res, failure.BadRequestFromString(fmt.Sprintf(messageTooManyImages, storage.MaxFiles(s.cfg))) //nolint:wrapcheck
	}

	added, err := s.saveImages(ctx, req.Images)
	if err != nil {
		return res, err
	}

	if req.ExistingImages != nil || len(added) > 0 {
		product.Images = append(kept, added...)
		fields[model.FieldImages] = product.Images
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(product.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update product")
		storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, urlsOf(added)...)

		return res, fmt.Errorf("failed to update product: %w", err)
	}

	if req.ExistingImages != nil {
		s.deleteImages(ctx, urlsOf(removed))
	}

	res.FromModel(product)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, c caller.Caller, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteProduct")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	product, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionProductDelete, policy.Resource{VendorID: product.VendorID}); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err = s.repo.Delete(ctx, shared.FilterByID(product.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete product")

		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.deleteImages(ctx, product.ImageURLs())

	return nil
}

func (s *serviceImpl) List(ctx context.Context, req dto.ListProductsRequest) (res dto.ProductPage, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListProducts")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	vendorID := ""
	if req.VendorID != "" {
		vendorID, err = s.resolveVendor(ctx, req.VendorID)
		if err != nil {
			return res, err
		}

		if vendorID == "" {
			return dto.EmptyPage(), nil
		}
	}

	rows, total, err := s.repo.Search(ctx, req, vendorID)
	if err != nil {
		log.Error().Err(err).Msg("failed to search products")

		return res, fmt.Errorf("failed to search products: %w", err)
	}

	res.FromModels(rows, total, req, shared.CalculateTotalPage(total, req.Limit))

	return res, nil
}

// resolveVendor treats the value as a vendor id first and then as the id of
// the owning user. An empty result means no vendor matched.
func (s *serviceImpl) resolveVendor(ctx context.Context, value string) (string, error) {
	if uuid.Validate(value) != nil {
		return "", nil
	}

	for _, field := range []string{vendorModel.FieldID, vendorModel.FieldUserID} {
		vendor, err := s.vendorRepo.Get(ctx, shared.FilterByID(value, field, vendorModel.TableName), vendorModel.FieldID)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve vendor filter")

			return "", fmt.Errorf("failed to resolve vendor filter: %w", err)
		}

		if vendor.ID != "" {
			return vendor.ID, nil
		}
	}

	return "", nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Product, error) {
	if uuid.Validate(id) != nil {
		return model.Product{}, failure.NotFound(messageNotFound) //nolint:wrapcheck
	}

	product, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get product")

		return product, fmt.Errorf("failed to get product: %w", err)
	}

	if product.ID == "" {
		return product, failure.NotFound(messageNotFound) //nolint:wrapcheck
	}

	return product, nil
}

func (s *serviceImpl) category(ctx context.Context, id string) (categoryModel.Category, error) {
	id = strings.TrimSpace(id)
	if uuid.Validate(id) != nil {
		return categoryModel.Category{}, failure.BadRequestFromString(messageInvalidCategory) //nolint:wrapcheck
	}

	category, err := s.categoryRepo.Get(ctx, shared.FilterByID(id, categoryModel.FieldID, categoryModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get category")

		return category, fmt.Errorf("failed to get category: %w", err)
	}

	if category.ID == "" {
		return category, failure.BadRequestFromString(messageInvalidCategory) //nolint:wrapcheck
	}

	return category, nil
}

// saveImages validates every file before writing any of them. Files already
// written are removed again when a later one fails.
func (s *serviceImpl) saveImages(ctx context.Context, files []*multipart.FileHeader) ([]model.Image, error) {
	maxFiles := storage.MaxFiles(s.cfg)
	if len(files) > maxFiles {
		return nil, failure.BadRequestFromString(fmt.Sprintf(messageTooManyImages, maxFiles)) //nolint:wrapcheck
	}

	maxSize := storage.MaxFileSizeMB(s.cfg)
	for _, file := range files {
		if err := validator.ValidateFile(file, maxSize); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	images := make([]model.Image, 0, len(files))
	for _, file := range files {
		stored, err := storage.SaveUpload(ctx, s.store, constant.UploadDirProducts, file)
		if err != nil {
			log.Error().Err(err).Msg("failed to store product image")
			storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, urlsOf(images)...)

			return nil, fmt.Errorf("failed to store product image: %w", err)
		}

		images = append(images, model.Image{URL: stored.URL, Filename: stored.Filename, Size: stored.Size})
	}

	return images, nil
}

func (s *serviceImpl) deleteImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}

	go storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, urls...)
}

// keepImages splits the stored images into the ones listed in keep and the
// rest. A nil keep list retains everything.
func keepImages(images []model.Image, keep []string) (kept, removed []model.Image) {
	if keep == nil {
		return slices.Clone(images), nil
	}

	kept = []model.Image{}
	for _, image := range images {
		if slices.Contains(keep, image.URL) {
			kept = append(kept, image)
		} else {
			removed = append(removed, image)
		}
	}

	return kept, removed
}

func urlsOf(images []model.Image) []string {
	urls := make([]string, 0, len(images))
	for _, image := range images {
		urls = append(urls, image.URL)
	}

	return urls
}
