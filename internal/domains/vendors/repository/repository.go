package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"eventhub/infras/otel"
	"eventhub/infras/postgres"
	"eventhub/internal/domains/vendors/model"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/logger"
	gRepo "eventhub/shared/repository"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type Vendor interface {
	Insert(ctx context.Context, vendor model.Vendor) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, vendor model.Vendor) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Vendor, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Vendor, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Vendor, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
	CountActiveByCategory(ctx context.Context) (map[string]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Vendor]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Vendor {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Vendor](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type categoryCount struct {
	Category string `db:"category"`
	Total    int    `db:"total"`
}

// CountActiveByCategory returns the number of active vendors per lowercased category name.
func (r *repositoryImpl) CountActiveByCategory(ctx context.Context) (counts map[string]int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vendor.CountActiveByCategory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	query := fmt.Sprintf(
		"SELECT LOWER(%[1]s) AS category, COUNT(%[2]s) AS total FROM %[3]s WHERE %[4]s = $1 GROUP BY LOWER(%[1]s)",
		model.FieldCategory, model.FieldID, model.TableName, model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []categoryCount
	if err = r.db.Read.SelectContext(ctx, &rows, query, model.StatusActive); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count vendors by category: %w", err)
	}

	counts = make(map[string]int, len(rows))
	for _, row := range rows {
		counts[strings.ToLower(row.Category)] = row.Total
	}

	return counts, nil
}
