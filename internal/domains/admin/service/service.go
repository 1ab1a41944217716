package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/otel"
	"eventhub/infras/storage"
	"eventhub/internal/domains/admin/model/dto"
	bookingModel "eventhub/internal/domains/booking/model"
	bookingDto "eventhub/internal/domains/booking/model/dto"
	bookingRepo "eventhub/internal/domains/booking/repository"
	userModel "eventhub/internal/domains/user/model"
	userDto "eventhub/internal/domains/user/model/dto"
	userRepo "eventhub/internal/domains/user/repository"
	vendorDto "eventhub/internal/domains/vendors/model/dto"
	vendorRepo "eventhub/internal/domains/vendors/repository"
	"eventhub/internal/policy"
	"eventhub/shared/caller"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/timezone"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

type Admin interface {
	Stats(ctx context.Context, c caller.Caller) (dto.StatsResponse, error)
	Users(ctx context.Context, c caller.Caller) ([]userDto.UserResponse, error)
	Vendors(ctx context.Context, c caller.Caller) ([]vendorDto.VendorResponse, error)
	Bookings(ctx context.Context, c caller.Caller) ([]bookingDto.BookingDetailResponse, error)
	ExportBookings(ctx context.Context, c caller.Caller) (dto.ExportFile, error)
}

type serviceImpl struct {
	userRepo    userRepo.User
	vendorRepo  vendorRepo.Vendor
	bookingRepo bookingRepo.Booking
	policy      policy.Policy
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	userRepo userRepo.User,
	vendorRepo vendorRepo.Vendor,
	bookingRepo bookingRepo.Booking,
	policy policy.Policy,
	cfg *config.Config,
	otel otel.Otel,
) Admin {
	return &serviceImpl{
		userRepo:    userRepo,
		vendorRepo:  vendorRepo,
		bookingRepo: bookingRepo,
		policy:      policy,
		cfg:         cfg,
		otel:        otel,
	}
}

func newest() gDto.QueryParams {
	return gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}
}

func (s *serviceImpl) Stats(ctx context.Context, c caller.Caller) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminStats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	if res.UserCount, err = s.userRepo.Count(ctx, gDto.FilterGroup{}); err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	if res.VendorCount, err = s.vendorRepo.Count(ctx, gDto.FilterGroup{}); err != nil {
		log.Error().Err(err).Msg("failed to count vendors")

		return res, fmt.Errorf("failed to count vendors: %w", err)
	}

	counts, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	for _, n := range counts {
		res.BookingCount += n
	}

	res.BookingStatus = dto.BookingStatusCount{
		Pending:   counts[bookingModel.StatusPending],
		Confirmed: counts[bookingModel.StatusConfirmed],
		Completed: counts[bookingModel.StatusCompleted],
		Cancelled: counts[bookingModel.StatusCancelled],
	}

	return res, nil
}

// Users lists every account. The response type carries no password.
func (s *serviceImpl) Users(ctx context.Context, c caller.Caller) (res []userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminUsers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	users, err := s.userRepo.GetAll(ctx, newest(), gDto.FilterGroup{},
		userModel.FieldID, userModel.FieldName, userModel.FieldEmail, userModel.FieldPhone, userModel.FieldRole,
		constant.FieldCreatedAt, constant.FieldModifiedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	return userDto.FromModels(users), nil
}

func (s *serviceImpl) Vendors(ctx context.Context, c caller.Caller) (res []vendorDto.VendorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminVendors")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	vendors, err := s.vendorRepo.GetAll(ctx, newest(), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get vendors")

		return res, fmt.Errorf("failed to get vendors: %w", err)
	}

	return vendorDto.FromModels(vendors, func(image string) string {
		return storage.ImageURL(s.cfg, image)
	}), nil
}

func (s *serviceImpl) Bookings(ctx context.Context, c caller.Caller) (res []bookingDto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AdminBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.allBookings(ctx)
}

// ExportBookings renders every booking into a single sheet workbook.
func (s *serviceImpl) ExportBookings(ctx context.Context, c caller.Caller) (res dto.ExportFile, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.policy.Authorize(ctx, c, policy.ActionAdmin, policy.Resource{}); err != nil {
		return res, err //nolint:wrapcheck
	}

	bookings, err := s.allBookings(ctx)
	if err != nil {
		return res, err
	}

	data, err := WriteWorkbook(bookings)
	if err != nil {
		log.Error().Err(err).Msg("failed to write bookings export")

		return res, err
	}

	return dto.ExportFile{Name: dto.ExportName(timezone.Now()), Data: data}, nil
}

func (s *serviceImpl) allBookings(ctx context.Context) ([]bookingDto.BookingDetailResponse, error) {
	bookings, err := s.bookingRepo.GetAllDetails(ctx, newest(), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	return bookingDto.FromDetails(bookings), nil
}

// WriteWorkbook lays out one header row followed by one row per booking.
func WriteWorkbook(bookings []bookingDto.BookingDetailResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &dto.ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err = f.SetRowStyle(exportSheet, 1, 1, style); err != nil {
		return nil, fmt.Errorf("failed to style export header: %w", err)
	}

	for i, booking := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address export row: %w", err)
		}

		row := dto.ExportRow(booking)
		if err = f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	return buf.Bytes(), nil
}
