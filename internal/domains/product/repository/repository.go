package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"eventhub/infras/otel"
	"eventhub/infras/postgres"
	"eventhub/internal/domains/product/model"
	"eventhub/internal/domains/product/model/dto"
	vendorModel "eventhub/internal/domains/vendors/model"
	"eventhub/shared/constant"
	gDto "eventhub/shared/dto"
	"eventhub/shared/logger"
	gRepo "eventhub/shared/repository"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Product interface {
	Insert(ctx context.Context, product model.Product) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Product, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Product, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Product, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
	Search(ctx context.Context, req dto.ListProductsRequest, vendorID string) ([]model.ProductWithVendor, int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Product]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Product {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Product](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Search runs the catalog query and the matching count.
func (r *repositoryImpl) Search(ctx context.Context, req dto.ListProductsRequest, vendorID string) (rows []model.ProductWithVendor, total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".product.Search")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	countQuery, countArgs, err := BuildCountQuery(req, vendorID).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build product count query: %w", err)
	}

	if err = r.db.Read.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		logger.ErrorWithStack(err)

		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if total == 0 {
		return []model.ProductWithVendor{}, 0, nil
	}

	query, args, err := BuildSearchQuery(r.SelectQuery(), req, vendorID).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build product search query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows = []model.ProductWithVendor{}
	if err = r.db.Read.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	return rows, total, nil
}

// BuildSearchQuery selects one page of products with the vendor name joined.
func BuildSearchQuery(columns string, req dto.ListProductsRequest, vendorID string) squirrel.SelectBuilder {
	query := psql.
		Select(columns, fmt.Sprintf("%s.%s AS %s", vendorModel.TableName, vendorModel.FieldName, model.FieldVendorName)).
		From(model.TableName).
		LeftJoin(fmt.Sprintf("%s ON %s.%s = %s.%s", vendorModel.TableName, vendorModel.TableName, vendorModel.FieldID, model.TableName, model.FieldVendorID))

	if where := searchConditions(req, vendorID); len(where) > 0 {
		query = query.Where(where)
	}

	return query.
		OrderBy(orderBy(req.Sort)...).
		Limit(uint64(req.Limit)).   //nolint:gosec
		Offset(uint64(req.Offset())) //nolint:gosec
}

func BuildCountQuery(req dto.ListProductsRequest, vendorID string) squirrel.SelectBuilder {
	query := psql.Select(fmt.Sprintf("COUNT(%s.%s)", model.TableName, model.FieldID)).From(model.TableName)

	if where := searchConditions(req, vendorID); len(where) > 0 {
		query = query.Where(where)
	}

	return query
}

func searchConditions(req dto.ListProductsRequest, vendorID string) squirrel.And {
	where := squirrel.And{}

	if vendorID != "" {
		where = append(where, squirrel.Eq{column(model.FieldVendorID): vendorID})
	}

	if req.Category != "" {
		where = append(where, squirrel.Expr(fmt.Sprintf("LOWER(%s) = LOWER(?)", column(model.FieldCategory)), req.Category))
	}

	if req.Search != "" {
		pattern := "%" + likeEscaper.Replace(req.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{column(model.FieldName): pattern},
			squirrel.ILike{column(model.FieldDescription): pattern},
		})
	}

	if req.MinPrice != nil {
		where = append(where, squirrel.GtOrEq{column(model.FieldPrice): *req.MinPrice})
	}

	if req.MaxPrice != nil {
		where = append(where, squirrel.LtOrEq{column(model.FieldPrice): *req.MaxPrice})
	}

	return where
}

func orderBy(sort string) []string {
	newest := column(model.FieldCreatedAt) + " DESC"
	tiebreak := column(model.FieldID)

	switch sort {
	case model.SortPriceAsc:
		return []string{column(model.FieldPrice) + " ASC", newest, tiebreak}
	case model.SortPriceDesc:
		return []string{column(model.FieldPrice) + " DESC", newest, tiebreak}
	case model.SortNewest:
		return []string{newest, tiebreak}
	default:
		return []string{fmt.Sprintf("%s.%s DESC NULLS LAST", vendorModel.TableName, vendorModel.FieldRating), newest, tiebreak}
	}
}

func column(field string) string {
	return model.TableName + "." + field
}
