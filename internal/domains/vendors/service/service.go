package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/otel"
	"eventhub/infras/storage"
	bookingRepo "eventhub/internal/domains/booking/repository"
	categoryRepo "eventhub/internal/domains/category/repository"
	productModel "eventhub/internal/domains/product/model"
	productDto "eventhub/internal/domains/product/model/dto"
	productRepo "eventhub/internal/domains/product/repository"
	userModel "eventhub/internal/domains/user/model"
	userRepo "eventhub/internal/domains/user/repository"
	"eventhub/internal/domains/vendors/model"
	"eventhub/internal/domains/vendors/model/dto"
	"eventhub/internal/domains/vendors/repository"
	"eventhub/internal/policy"
	"eventhub/shared"
	"eventhub/shared/cache"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/event"
	"eventhub/shared/failure"
	"eventhub/shared/metrics"
	"eventhub/shared/timezone"
	"eventhub/shared/transaction"
	"eventhub/shared/validator"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheVendor       = "vendor:"
	cacheGetAllVendor = "vendor:gets"

	messageProfileExists      = "Vendor profile already exists"
	messageInvalidID          = "Invalid vendor ID format"
	messageInvalidCategory    = "Invalid category"
	messageNoImage            = "No image file provided"
	messageServiceNotFound    = "Service not found"
	messageInvalidStatus      = "Invalid status value. Must be 'active', 'pending', or 'suspended'."
	messageInvalidTransition  = "Invalid status transition"
	MessageServiceAdded       = "Service added successfully"
	MessageServiceUpdated     = "Service updated successfully"
	MessageServiceDeleted     = "Service deleted successfully"
	MessageProfileImageUpdate = "Profile image updated successfully"
	MessageStatusUpdated      = "Vendor status updated successfully"
	MessageVendorDeleted      = "Vendor and all associated data deleted successfully"
)

type Vendor interface {
	Create(ctx context.Context, c caller.Caller, req dto.CreateVendorRequest) error
	List(ctx context.Context) ([]dto.VendorResponse, error)
	Get(ctx context.Context, id string) (dto.VendorDetailResponse, error)
	GetProfile(ctx context.Context, c caller.Caller) (dto.VendorResponse, error)
	UpdateProfile(ctx context.Context, c caller.Caller, req dto.UpdateProfileRequest) (dto.VendorResponse, error)
	UpdateProfileImage(ctx context.Context, c caller.Caller, file *multipart.FileHeader) (dto.ProfileImageResponse, error)
	Update(ctx context.Context, c caller.Caller, id string, req dto.UpdateVendorRequest) error
	Remove(ctx context.Context, c caller.Caller, id string) error
	UpdateStatus(ctx context.Context, c caller.Caller, id string, req dto.UpdateStatusRequest) (dto.StatusResponse, error)
	Delete(ctx context.Context, c caller.Caller, id string) (dto.DeleteResponse, error)
}

// Repositories groups the stores the vendor cascade writes to.
type Repositories struct {
	Vendor   repository.Vendor
	Product  productRepo.Product
	Booking  bookingRepo.Booking
	User     userRepo.User
	Category categoryRepo.Category
}

type serviceImpl struct {
	repos     Repositories
	policy    policy.Policy
	tx        transaction.Runner
	store     storage.FileStore
	publisher event.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repos Repositories,
	policy policy.Policy,
	tx transaction.Runner,
	store storage.FileStore,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Vendor {
	return &serviceImpl{
		repos:     repos,
		policy:    policy,
		tx:        tx,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

type statusChanged struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *serviceImpl) imageURL(image string) string {
	return storage.ImageURL(s.cfg, image)
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheVendor)
	}()
}

func (s *serviceImpl) Create(ctx context.Context, c caller.Caller, req dto.CreateVendorRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateVendor")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	existing, err := s.policy.VendorOf(ctx, c.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve vendor")

		return fmt.Errorf("failed to resolve vendor: %w", err)
	}

	if existing.ID != "" {
		return failure.Conflict(messageProfileExists) //nolint:wrapcheck
	}

	vendor := req.ToModel(c.UserID, c.Email, "")

	if err = s.repos.Vendor.Insert(ctx, vendor); err != nil {
		log.Error().Err(err).Msg("failed to create vendor")

		return fmt.Errorf("failed to create vendor: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) List(ctx context.Context) (res []dto.VendorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListVendors")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.cache.Get(ctx, cacheGetAllVendor, &res); err == nil {
		log.Debug().Str("cacheKey", cacheGetAllVendor).Msg("cache hit for vendors")

		return res, nil
	}

	vendors, err := s.repos.Vendor.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get vendors")

		return res, fmt.Errorf("failed to get vendors: %w", err)
	}

	res = dto.FromModels(vendors, s.imageURL)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetAllVendor, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vendors to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VendorDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetVendor")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if uuid.Validate(id) != nil {
		return res, failure.BadRequestFromString(messageInvalidID) //nolint:wrapcheck
	}

	vendor, err := s.getByID(ctx, id, policy.MessageVendorNotFound)
	if err != nil {
		return res, err
	}

	products, err := s.repos.Product.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}, productsOf(vendor.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vendor products")

		return res, fmt.Errorf("failed to get vendor products: %w", err)
	}

	res.FromModel(vendor, s.imageURL)
	res.Products = productDto.FromModels(products)

	return res, nil
}

func (s *serviceImpl) GetProfile(ctx context.Context, c caller.Caller) (res dto.VendorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetVendorProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	vendor, err := s.ownProfile(ctx, c)
	if err != nil {
		return res, err
	}

	res.FromModel(vendor, s.imageURL)

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, c caller.Caller, req dto.UpdateProfileRequest) (res dto.VendorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateVendorProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	vendor, err := s.ownProfile(ctx, c)
	if err != nil {
		return res, err
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionVendorUpdate, policy.Resource{OwnerUserID: vendor.UserID}); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.Category != "" {
		category, err := s.repos.Category.Get(ctx, categoryRepo.NameFilter(req.Category, ""))
		if err != nil {
			log.Error().Err(err).Msg("failed to get category")

			return res, fmt.Errorf("failed to get category: %w", err)
		}

		if category.ID == "" {
			return res, failure.BadRequestFromString(messageInvalidCategory) //nolint:wrapcheck
		}

		req.Category = category.Name
	}

	fields := shared.TransformFields(req, c.Actor())
	if err = s.repos.Vendor.Update(ctx, fields, shared.FilterByID(vendor.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update vendor profile")

		return res, fmt.Errorf("failed to update vendor profile: %w", err)
	}

	req.Apply(&vendor)
	res.FromModel(vendor, s.imageURL)
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) UpdateProfileImage(ctx context.Context, c caller.Caller, file *multipart.FileHeader) (res dto.ProfileImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateVendorProfileImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if file == nil {
		return res, failure.BadRequestFromString(messageNoImage) //nolint:wrapcheck
	}

	if err = validator.ValidateFile(file, storage.MaxFileSizeMB(s.cfg)); err != nil {
		return res, err //nolint:wrapcheck
	}

	vendor, err := s.ownProfile(ctx, c)
	if err != nil {
		return res, err
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionVendorImage, policy.Resource{OwnerUserID: vendor.UserID}); err != nil {
		return res, err //nolint:wrapcheck
	}

	stored, err := storage.SaveUpload(ctx, s.store, constant.UploadDirVendors, file)
	if err != nil {
		log.Error().Err(err).Msg("failed to store profile image")

		return res, fmt.Errorf("failed to store profile image: %w", err)
	}

	err = s.repos.Vendor.Update(ctx, map[string]any{
		model.FieldProfileImage:  stored.URL,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: c.Actor(),
	}, shared.FilterByID(vendor.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update profile image")
		storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, stored.URL)

		return res, fmt.Errorf("failed to update profile image: %w", err)
	}

	if vendor.ProfileImage != "" {
		storage.DeleteQuietly(ctx, s.store, s.imageURL(vendor.ProfileImage))
	}

	s.invalidate(ctx)

	return dto.ProfileImageResponse{
		Message:      MessageProfileImageUpdate,
		ProfileImage: stored.Filename,
		ImageURL:     stored.URL,
	}, nil
}

// Update is the owner edit of the original service listing.
func (s *serviceImpl) Update(ctx context.Context, c caller.Caller, id string, req dto.UpdateVendorRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateVendor")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	vendor, err := s.getByID(ctx, id, messageServiceNotFound)
	if err != nil {
		return err
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionVendorUpdate, policy.Resource{OwnerUserID: vendor.UserID}); err != nil {
		return err //nolint:wrapcheck
	}

	fields := shared.TransformFields(req, c.Actor())
	if req.Images != nil {
		fields[model.FieldGallery] = pq.StringArray(req.Images)
	}

	if err = s.repos.Vendor.Update(ctx, fields, shared.FilterByID(vendor.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update vendor")

		return fmt.Errorf("failed to update vendor: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// Remove is the owner delete. It runs the same cascade as the admin delete
// but keeps the owner's account.
func (s *serviceImpl) Remove(ctx context.Context, c caller.Caller, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveVendor")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	vendor, err := s.getByID(ctx, id, messageServiceNotFound)
	if err != nil {
		return err
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionVendorUpdate, policy.Resource{OwnerUserID: vendor.UserID}); err != nil {
		return err //nolint:wrapcheck
	}

	_, err = s.cascade(ctx, vendor, false)

	return err
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, c caller.Caller, id string, req dto.UpdateStatusRequest) (res dto.StatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateVendorStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	if uuid.Validate(id) != nil {
		return res, failure.BadRequestFromString(messageInvalidID) //nolint:wrapcheck
	}

	if validator.ValidateStruct(&req) != nil {
		return res, failure.BadRequestFromString(messageInvalidStatus) //nolint:wrapcheck
	}

	vendor, err := s.getByID(ctx, id, policy.MessageVendorNotFound)
	if err != nil {
		return res, err
	}

	from := vendor.Status
	if !model.CanTransition(from, req.Status) {
		return res, failure.BadRequestFromString(messageInvalidTransition) //nolint:wrapcheck
	}

	if from != req.Status {
		err = s.repos.Vendor.Update(ctx, map[string]any{
			model.FieldStatus:        req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: c.Actor(),
		}, shared.FilterByID(vendor.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to update vendor status")

			return res, fmt.Errorf("failed to update vendor status: %w", err)
		}

		s.invalidate(ctx)
		event.PublishAsync(ctx, s.publisher, event.VendorStatusChanged, vendor.ID, statusChanged{ID: vendor.ID, From: from, To: req.Status})
	}

	return dto.StatusResponse{
		Message: MessageStatusUpdated,
		Vendor:  dto.VendorSummary{ID: vendor.ID, Name: vendor.Name, Status: req.Status},
	}, nil
}

func (s *serviceImpl) Delete(ctx context.Context, c caller.Caller, id string) (res dto.DeleteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteVendor")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionVendorDelete, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	if uuid.Validate(id) != nil {
		return res, failure.BadRequestFromString(messageInvalidID) //nolint:wrapcheck
	}

	vendor, err := s.getByID(ctx, id, policy.MessageVendorNotFound)
	if err != nil {
		return res, err
	}

	details, err := s.cascade(ctx, vendor, true)
	if err != nil {
		return res, err
	}

	return dto.DeleteResponse{Message: MessageVendorDeleted, Details: details}, nil
}

// cascade removes the vendor with its bookings and products in one
// transaction, optionally with the owning user. Stored images are removed
// after commit and failures there are only logged.
func (s *serviceImpl) cascade(ctx context.Context, vendor model.Vendor, withUser bool) (details dto.DeleteDetails, err error) {
	products, err := s.repos.Product.GetAll(ctx, gDto.QueryParams{}, productsOf(vendor.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vendor products")

		return details, fmt.Errorf("failed to get vendor products: %w", err)
	}

	ownerID := ""
	if withUser {
		ownerID = vendor.UserID
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		bookings, err := s.repos.Booking.DeleteForVendorTx(ctx, tx, vendor.ID, ownerID)
		if err != nil {
			return fmt.Errorf("failed to delete vendor bookings: %w", err)
		}

		productCount, err := s.repos.Product.DeleteTx(ctx, tx, productsOf(vendor.ID))
		if err != nil {
			return fmt.Errorf("failed to delete vendor products: %w", err)
		}

		vendors, err := s.repos.Vendor.DeleteTx(ctx, tx, shared.FilterByID(vendor.ID, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to delete vendor: %w", err)
		}

		details = dto.DeleteDetails{
			BookingsDeleted: bookings,
			ProductsDeleted: productCount,
			VendorDeleted:   vendors > 0,
		}

		if !withUser {
			return nil
		}

		users, err := s.repos.User.DeleteTx(ctx, tx, shared.FilterByID(vendor.UserID, userModel.FieldID, userModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to delete vendor user: %w", err)
		}

		details.UserDeleted = users > 0

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("vendor_id", vendor.ID).Msg("failed to delete vendor")

		return dto.DeleteDetails{}, err
	}

	metrics.VendorsDeleted.Inc()

	images := imagesOf(vendor, products, s.cfg)

	go func() {
		c := context.WithoutCancel(ctx)

		storage.DeleteQuietly(c, s.store, images...)
		shared.InvalidateCaches(c, s.cache, cacheVendor)
	}()

	event.PublishAsync(ctx, s.publisher, event.VendorDeleted, vendor.ID, details)

	return details, nil
}

func (s *serviceImpl) getByID(ctx context.Context, id, notFound string) (model.Vendor, error) {
	vendor, err := s.repos.Vendor.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vendor")

		return vendor, fmt.Errorf("failed to get vendor: %w", err)
	}

	if vendor.ID == "" {
		return vendor, failure.NotFound(notFound) //nolint:wrapcheck
	}

	return vendor, nil
}

func (s *serviceImpl) ownProfile(ctx context.Context, c caller.Caller) (model.Vendor, error) {
	vendor, err := s.policy.VendorOf(ctx, c.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve vendor")

		return vendor, fmt.Errorf("failed to resolve vendor: %w", err)
	}

	if vendor.ID == "" {
		return vendor, failure.NotFound(policy.MessageVendorProfileNotFound) //nolint:wrapcheck
	}

	return vendor, nil
}

func productsOf(vendorID string) gDto.FilterGroup {
	return shared.FilterByID(vendorID, productModel.FieldVendorID, productModel.TableName)
}

func imagesOf(vendor model.Vendor, products []productModel.Product, cfg *config.Config) []string {
	var images []string

	if vendor.ProfileImage != "" {
		images = append(images, storage.ImageURL(cfg, vendor.ProfileImage))
	}

	for _, product := range products {
		images = append(images, product.ImageURLs()...)
	}

	return images
}
