package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/otel"
	"eventhub/internal/domains/category/model"
	"eventhub/internal/domains/category/model/dto"
	"eventhub/internal/domains/category/repository"
	vendorModel "eventhub/internal/domains/vendors/model"
	vendorRepo "eventhub/internal/domains/vendors/repository"
	"eventhub/internal/policy"
	"eventhub/shared"
	"eventhub/shared/cache"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/failure"
	"eventhub/shared/validator"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheCategory       = "category:"
	cacheActiveCategory = "category:active"

	messageNameExists  = "Category name already exists"
	messageNotFound    = "Category not found"
	MessageDeactivated = "Category marked as inactive as it is being used by vendors"
	MessageDeleted     = "Category deleted successfully"
)

type Category interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	AdminList(ctx context.Context, c caller.Caller) ([]dto.AdminCategoryResponse, error)
	Create(ctx context.Context, c caller.Caller, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	Update(ctx context.Context, c caller.Caller, id string, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, c caller.Caller, id string) (dto.DeleteCategoryResponse, error)
}

type serviceImpl struct {
	repo       repository.Category
	vendorRepo vendorRepo.Vendor
	policy     policy.Policy
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Category,
	vendorRepo vendorRepo.Vendor,
	policy policy.Policy,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Category {
	return &serviceImpl{
		repo:       repo,
		vendorRepo: vendorRepo,
		policy:     policy,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheCategory)
	}()
}

// List returns the active categories ordered by name.
func (s *serviceImpl) List(ctx context.Context) (res []dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListCategories")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.cache.Get(ctx, cacheActiveCategory, &res); err == nil {
		log.Debug().Str("cacheKey", cacheActiveCategory).Msg("cache hit for categories")

		return res, nil
	}

	categories, err := s.repo.GetAll(ctx, byName(), activeOnly())
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	res = dto.FromModels(categories)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheActiveCategory, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save categories to cache")
		}
	}()

	return res, nil
}

// AdminList returns every category with the number of active vendors using it.
func (s *serviceImpl) AdminList(ctx context.Context, c caller.Caller) (res []dto.AdminCategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminListCategories")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	categories, err := s.repo.GetAll(ctx, byName(), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	counts, err := s.vendorRepo.CountActiveByCategory(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vendors by category")

		return res, fmt.Errorf("failed to count vendors by category: %w", err)
	}

	return dto.FromModelsWithCounts(categories, counts), nil
}

func (s *serviceImpl) Create(ctx context.Context, c caller.Caller, req dto.CreateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.ensureUniqueName(ctx, req.Name, ""); err != nil {
		return res, err
	}

	category := req.ToModel(c.Actor())

	if err = s.repo.Insert(ctx, category); err != nil {
		log.Error().Err(err).Msg("failed to create category")

		return res, fmt.Errorf("failed to create category: %w", err)
	}

	res.FromModel(category)
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, c caller.Caller, id string, req dto.UpdateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	category, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if req.Name != "" && req.Name != category.Name {
		if err = s.ensureUniqueName(ctx, req.Name, category.ID); err != nil {
			return res, err
		}
	}

	fields := shared.TransformFields(req, c.Actor())
	if err = s.repo.Update(ctx, fields, shared.FilterByID(category.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update category")

		return res, fmt.Errorf("failed to update category: %w", err)
	}

	req.Apply(&category)
	res.FromModel(category)
	s.invalidate(ctx)

	return res, nil
}

// Delete removes an unused category. A category still referenced by a vendor
// is deactivated instead.
func (s *serviceImpl) Delete(ctx context.Context, c caller.Caller, id string) (res dto.DeleteCategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	category, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	inUse, err := s.vendorRepo.Count(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    vendorModel.FieldCategory,
				Operator: gDto.FilterOperatorIEq,
				Value:    category.Name,
				Table:    vendorModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count vendors of category")

		return res, fmt.Errorf("failed to count vendors of category: %w", err)
	}

	defer s.invalidate(ctx)

	if inUse > 0 {
		inactive := false
		req := dto.UpdateCategoryRequest{IsActive: &inactive}

		if err = s.repo.Update(ctx, shared.TransformFields(req, c.Actor()), shared.FilterByID(category.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to deactivate category")

			return res, fmt.Errorf("failed to deactivate category: %w", err)
		}

		req.Apply(&category)

		var deactivated dto.CategoryResponse
		deactivated.FromModel(category)

		return dto.DeleteCategoryResponse{Message: MessageDeactivated, Category: &deactivated}, nil
	}

	if _, err = s.repo.Delete(ctx, shared.FilterByID(category.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete category")

		return res, fmt.Errorf("failed to delete category: %w", err)
	}

	return dto.DeleteCategoryResponse{Message: MessageDeleted}, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Category, error) {
	if uuid.Validate(id) != nil {
		return model.Category{}, failure.NotFound(messageNotFound) //nolint:wrapcheck
	}

	category, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get category")

		return category, fmt.Errorf("failed to get category: %w", err)
	}

	if category.ID == "" {
		return category, failure.NotFound(messageNotFound) //nolint:wrapcheck
	}

	return category, nil
}

func (s *serviceImpl) ensureUniqueName(ctx context.Context, name, exceptID string) error {
	exists, err := s.repo.Exist(ctx, repository.NameFilter(name, exceptID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check category name")

		return fmt.Errorf("failed to check category name: %w", err)
	}

	if exists {
		return failure.BadRequestFromString(messageNameExists) //nolint:wrapcheck
	}

	return nil
}

func byName() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}
}

func activeOnly() gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}
}
