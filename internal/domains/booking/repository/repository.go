package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"eventhub/infras/otel"
	"eventhub/infras/postgres"
	"eventhub/internal/domains/booking/model"
	productModel "eventhub/internal/domains/product/model"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/logger"
	gRepo "eventhub/shared/repository"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error)
	GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeleteForVendorTx(ctx context.Context, sqltx *sqlx.Tx, vendorID, userID string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	details gRepo.Repository[model.BookingDetail]
	db      *postgres.Connection
	otel    otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		details:    gRepo.NewRepository[model.BookingDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	return r.details.Get(ctx, filter)
}

// GetAllDetails lists bookings with the joined product, customer and vendor
// names. Filters may reference the products table.
func (r *repositoryImpl) GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	return r.details.GetAll(ctx, params, filter)
}

type statusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

// CountByStatus returns the number of bookings per status. Every known status
// is present, with zero when no booking has it.
func (r *repositoryImpl) CountByStatus(ctx context.Context) (counts map[string]int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountByStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf("SELECT %[1]s AS status, COUNT(%[2]s) AS total FROM %[3]s GROUP BY %[1]s", model.FieldStatus, model.FieldID, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []statusCount
	if err = r.db.Read.SelectContext(ctx, &rows, query); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts = make(map[string]int, len(model.Statuses))
	for _, status := range model.Statuses {
		counts[status] = 0
	}

	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

// DeleteForVendorQuery renders the delete for every booking tied to a vendor:
// its own bookings and those on its products. A non-empty userID also removes
// the bookings that user made as a customer.
func DeleteForVendorQuery(vendorID, userID string) (string, []any) {
	query := fmt.Sprintf(
		"DELETE FROM %[1]s WHERE %[2]s = $1 OR %[3]s IN (SELECT %[4]s FROM %[5]s WHERE %[6]s = $1)",
		model.TableName, model.FieldVendorID, model.FieldProductID,
		productModel.FieldID, productModel.TableName, productModel.FieldVendorID,
	)
	args := []any{vendorID}

	if userID != "" {
		query += fmt.Sprintf(" OR %s = $2", model.FieldUserID)
		args = append(args, userID)
	}

	return query, args
}

func (r *repositoryImpl) DeleteForVendorTx(ctx context.Context, sqltx *sqlx.Tx, vendorID, userID string) (affected int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.DeleteForVendorTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query, args := DeleteForVendorQuery(vendorID, userID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to delete vendor bookings: %w", err)
	}

	affected, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted bookings: %w", err)
	}

	return affected, nil
}
