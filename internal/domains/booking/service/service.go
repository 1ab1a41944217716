package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/otel"
	"eventhub/internal/domains/booking/model"
	"eventhub/internal/domains/booking/model/dto"
	"eventhub/internal/domains/booking/repository"
	productModel "eventhub/internal/domains/product/model"
	productRepo "eventhub/internal/domains/product/repository"
	vendorModel "eventhub/internal/domains/vendors/model"
	vendorRepo "eventhub/internal/domains/vendors/repository"
	"eventhub/internal/policy"
	"eventhub/shared"
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
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	messageProductIDRequired = "Product ID is required"
	messageProductNotFound   = "Product not found"
	messageInvalidDate       = "Invalid date format"
	messageBookingNotFound   = "Booking not found"
	messageInvalidTransition = "Invalid status transition"
	messageNotCompleted      = "Only completed bookings can be reviewed"
	messageAlreadyReviewed   = "Booking has already been reviewed"
)

type Booking interface {
	Create(ctx context.Context, c caller.Caller, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	List(ctx context.Context, c caller.Caller) ([]dto.BookingDetailResponse, error)
	UpdateStatus(ctx context.Context, c caller.Caller, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Review(ctx context.Context, c caller.Caller, id string, req dto.ReviewRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	productRepo productRepo.Product
	vendorRepo  vendorRepo.Vendor
	policy      policy.Policy
	tx          transaction.Runner
	publisher   event.Publisher
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	productRepo productRepo.Product,
	vendorRepo vendorRepo.Vendor,
	policy policy.Policy,
	tx transaction.Runner,
	publisher event.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		policy:      policy,
		tx:          tx,
		publisher:   publisher,
		cfg:         cfg,
		otel:        otel,
	}
}

type statusChanged struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy string `json:"changed_by"`
}

func (s *serviceImpl) Create(ctx context.Context, c caller.Caller, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		return res, failure.BadRequestFromString(messageProductIDRequired) //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	if uuid.Validate(req.ProductID) != nil {
		return res, failure.NotFound(messageProductNotFound) //nolint:wrapcheck
	}

	var booking model.Booking

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		product, err := s.productRepo.GetTx(ctx, tx, shared.FilterByID(req.ProductID, productModel.FieldID, productModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get product")

			return fmt.Errorf("failed to get product: %w", err)
		}

		if product.ID == "" {
			return failure.NotFound(messageProductNotFound) //nolint:wrapcheck
		}

		date, err := timezone.ParseAny(strings.TrimSpace(req.Date), constant.DateOnlyFormat, constant.DateFormat)
		if err != nil {
			return failure.BadRequestFromString(messageInvalidDate) //nolint:wrapcheck
		}

		if req.VendorID != "" && req.VendorID != product.VendorID {
			vendor, err := s.vendorRepo.GetTx(ctx, tx, shared.FilterByID(req.VendorID, vendorModel.FieldID, vendorModel.TableName), vendorModel.FieldID)
			if err != nil {
				log.Error().Err(err).Msg("failed to get vendor")

				return fmt.Errorf("failed to get vendor: %w", err)
			}

			if vendor.ID == "" {
				return failure.NotFound(policy.MessageVendorNotFound) //nolint:wrapcheck
			}
		}

		booking = req.ToModel(c.UserID, product.VendorID, product.Price, date)

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	metrics.BookingsCreated.Inc()

	res.FromModel(booking)
	event.PublishAsync(ctx, s.publisher, event.BookingCreated, booking.ID, res)

	return res, nil
}

// List returns every booking to an admin, the bookings of the caller's vendor
// profile (direct or through its products) to a vendor, and the caller's own
// bookings to anyone else.
func (s *serviceImpl) List(ctx context.Context, c caller.Caller) (res []dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var filter gDto.FilterGroup

	switch {
	case c.IsAdmin():
	case c.IsVendor():
		vendor, err := s.policy.VendorOf(ctx, c.UserID)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve vendor")

			return res, fmt.Errorf("failed to resolve vendor: %w", err)
		}

		if vendor.ID == "" {
			return res, failure.NotFound(policy.MessageVendorProfileNotFound) //nolint:wrapcheck
		}

		filter = VendorFilter(vendor.ID)
	default:
		filter = shared.FilterByID(c.UserID, model.FieldUserID, model.TableName)
	}

	details, err := s.repo.GetAllDetails(ctx, newestFirst(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	return dto.FromDetails(details), nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, c caller.Caller, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateBookingStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if uuid.Validate(id) != nil {
		return res, failure.NotFound(messageBookingNotFound) //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	detail, err := s.repo.GetDetail(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == "" {
		return res, failure.NotFound(messageBookingNotFound) //nolint:wrapcheck
	}

	resource := policy.Resource{
		OwnerUserID:  detail.UserID,
		VendorID:     detail.VendorID,
		TargetStatus: req.Status,
	}
	if detail.ProductVendorID != nil {
		resource.ProductVendorID = *detail.ProductVendorID
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionBookingStatus, resource); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking := detail.Booking
	from := booking.Status

	if !model.CanTransition(from, req.Status, s.cfg.Booking.StrictTransitions) {
		return res, failure.Conflict(messageInvalidTransition) //nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: c.Actor(),
	}

	if req.Status == model.StatusCancelled {
		reason := strings.TrimSpace(req.Reason)
		fields[model.FieldCancellationReason] = reason
		booking.CancellationReason = &reason
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status
	metrics.BookingTransitions.WithLabelValues(from, req.Status).Inc()

	res.FromModel(booking)
	event.PublishAsync(ctx, s.publisher, event.BookingStatusChanged, booking.ID, statusChanged{
		ID:        booking.ID,
		From:      from,
		To:        req.Status,
		ChangedBy: c.UserID,
	})

	return res, nil
}

// Review records the customer's rating on the booking only. The vendor's
// aggregate rating is maintained separately.
func (s *serviceImpl) Review(ctx context.Context, c caller.Caller, id string, req dto.ReviewRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReviewBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if uuid.Validate(id) != nil {
		return res, failure.NotFound(messageBookingNotFound) //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return res, failure.NotFound(messageBookingNotFound) //nolint:wrapcheck
	}

	if err = s.policy.Authorize(ctx, c, policy.ActionBookingReview, policy.Resource{OwnerUserID: booking.UserID}); err != nil {
		return res, err //nolint:wrapcheck
	}

	if s.cfg.Booking.StrictTransitions {
		if booking.Status != model.StatusCompleted {
			return res, failure.Conflict(messageNotCompleted) //nolint:wrapcheck
		}

		if booking.Rating != nil {
			return res, failure.Conflict(messageAlreadyReviewed) //nolint:wrapcheck
		}
	}

	review := strings.TrimSpace(req.Review)

	err = s.repo.Update(ctx, map[string]any{
		model.FieldRating:        req.Rating,
		model.FieldReview:        review,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: c.Actor(),
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to review booking")

		return res, fmt.Errorf("failed to review booking: %w", err)
	}

	booking.Rating = &req.Rating
	booking.Review = &review

	res.FromModel(booking)
	event.PublishAsync(ctx, s.publisher, event.BookingReviewed, booking.ID, res)

	return res, nil
}

// VendorFilter matches bookings made directly with the vendor or on one of its products.
func VendorFilter(vendorID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				ArgName:  "booking_vendor_id",
				Field:    model.FieldVendorID,
				Operator: gDto.FilterOperatorEq,
				Value:    vendorID,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "product_vendor_id",
				Field:    productModel.FieldVendorID,
				Operator: gDto.FilterOperatorEq,
				Value:    vendorID,
				Table:    productModel.TableName,
			},
		},
	}
}

func newestFirst() gDto.QueryParams {
	return gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}
}
