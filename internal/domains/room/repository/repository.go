package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"hotelops/infras/otel"
	"hotelops/infras/postgres"
	"hotelops/internal/domains/room/model"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	gRepo "hotelops/shared/repository"

	"github.com/jmoiron/sqlx"
)

// noOverlapQuery keeps rooms without a non cancelled booking intersecting [window_check_in, window_check_out).
const noOverlapQuery = `NOT EXISTS (
	SELECT 1 FROM bookings
	WHERE bookings.room_id = rooms.id
	AND bookings.status <> 'cancelled'
	AND bookings.check_in_date < :window_check_out
	AND bookings.check_out_date > :window_check_in
)`

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	GetAvailable(ctx context.Context, params gDto.QueryParams, query model.AvailabilityQuery) ([]model.Room, error)
	CountAvailable(ctx context.Context, query model.AvailabilityQuery) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetAvailable(ctx context.Context, params gDto.QueryParams, query model.AvailabilityQuery) ([]model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetAvailable")
	defer scope.End()

	return r.GetAll(ctx, params, AvailabilityFilter(query)) //nolint:wrapcheck
}

func (r *repositoryImpl) CountAvailable(ctx context.Context, query model.AvailabilityQuery) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CountAvailable")
	defer scope.End()

	return r.Count(ctx, AvailabilityFilter(query)) //nolint:wrapcheck
}

// AvailabilityFilter builds the where tree shared by GetAvailable and CountAvailable.
func AvailabilityFilter(query model.AvailabilityQuery) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    model.StatusAvailable,
			Table:    model.TableName,
		},
	}

	if query.HotelID != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldHotelID,
			Operator: gDto.FilterOperatorEq,
			Value:    query.HotelID,
			Table:    model.TableName,
		})
	}

	if query.Beds != nil {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldBeds,
			Operator: gDto.FilterOperatorEq,
			Value:    *query.Beds,
			Table:    model.TableName,
		})
	}

	if query.Bathrooms != nil {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldBathrooms,
			Operator: gDto.FilterOperatorEq,
			Value:    *query.Bathrooms,
			Table:    model.TableName,
		})
	}

	if query.CheckIn != nil && query.CheckOut != nil {
		filters = append(filters, gDto.Filter{
			Operator: gDto.FilterPlainQuery,
			Value:    noOverlapQuery,
			Args: map[string]any{
				"window_check_in":  *query.CheckIn,
				"window_check_out": *query.CheckOut,
			},
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}
