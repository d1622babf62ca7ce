package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotelops/infras/otel"
	"hotelops/infras/postgres"
	"hotelops/internal/domains/order/model"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/logger"
	gRepo "hotelops/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const sumByBookingQuery = "SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE booking_id = $1"

type Order interface {
	Insert(ctx context.Context, model model.Order) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Order, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Order, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Order) error
	// SumTotalByBookingTx adds up every order of the booking regardless of status.
	SumTotalByBookingTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) (decimal.Decimal, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Order]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Order {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Order](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) SumTotalByBookingTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) (decimal.Decimal, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".order.SumTotalByBookingTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, sumByBookingQuery)

	total := decimal.Zero
	if err := sqltx.GetContext(ctx, &total, sumByBookingQuery, bookingID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return decimal.Zero, fmt.Errorf("failed to sum orders of booking: %w", err)
	}

	return total, nil
}
