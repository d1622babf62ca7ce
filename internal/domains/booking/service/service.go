package service

import (
	"context"
	"errors"
	"fmt"
	"hotelops/config"
	"hotelops/infras/kafka"
	"hotelops/infras/metrics"
	"hotelops/infras/otel"
	"hotelops/internal/domains/booking/model"
	"hotelops/internal/domains/booking/model/dto"
	"hotelops/internal/domains/booking/repository"
	orderModel "hotelops/internal/domains/order/model"
	orderRepo "hotelops/internal/domains/order/repository"
	roomModel "hotelops/internal/domains/room/model"
	roomRepo "hotelops/internal/domains/room/repository"
	roomService "hotelops/internal/domains/room/service"
	"hotelops/shared"
	"hotelops/shared/cache"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	gRepo "hotelops/shared/repository"
	"hotelops/shared/timezone"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	pricePrecision = 2
)

const (
	EventCreated    = "booking.created"
	EventUpdated    = "booking.updated"
	EventConfirmed  = "booking.confirmed"
	EventCheckedIn  = "booking.checked_in"
	EventCheckedOut = "booking.checked_out"
	EventCancelled  = "booking.cancelled"
	EventDeleted    = "booking.deleted"
)

var errBookingNotFound = failure.NotFound("booking not found")

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.CheckOutResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepo.Room
	orderRepo orderRepo.Order
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	kafka     kafka.Client
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	orderRepo orderRepo.Order,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		orderRepo: orderRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		kafka:     kafka,
	}
}

// Create books a walk-in guest: the room row is locked, the stay checked against every
// non cancelled booking, then the booking is stored checked in and the room marked occupied.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !req.CheckInDate.Before(req.CheckOutDate) {
		return res, failure.BadRequestFromString("check_in_date must be before check_out_date") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	guest := req.UserID
	if guest == constant.Empty {
		guest = user
	}

	var booking model.Booking

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		overlap, err := s.repo.HasOverlapTx(ctx, tx, room.ID, req.CheckInDate, req.CheckOutDate, constant.Empty)
		if err != nil {
			return fmt.Errorf("failed to check booking overlap: %w", err)
		}

		if overlap {
			return failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
		}

		total := room.PricePerNight.Mul(decimal.NewFromInt(model.Nights(req.CheckInDate, req.CheckOutDate)))
		if req.TotalPrice != nil {
			total = *req.TotalPrice
		}

		booking = req.ToModel(user, guest, total)

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return mapWriteError(err)
		}

		return s.setRoomStatus(ctx, tx, room.ID, roomModel.StatusOccupied, user)
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusConflict {
			metrics.ObserveConflict()
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, err //nolint:wrapcheck
	}

	res.FromModel(booking)

	s.afterCommit(ctx, booking, constant.Empty, EventCreated, user)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// GetMine lists the bookings of the authenticated user.
func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing user") // nolint:wrapcheck
	}

	return s.GetAll(ctx, req, shared.FilterByID(user, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Get returns the booking with its orders. Guests only see their own bookings.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		res, err = s.load(ctx, id)
		if err != nil {
			return res, err
		}

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role == constant.RoleGuest && res.UserID != user {
		return dto.BookingResponse{}, errBookingNotFound
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, errBookingNotFound
	}

	params := gDto.QueryParams{Sorts: []gDto.Sort{{Field: orderModel.FieldOrderedAt, Dir: gDto.SortDirAsc}}}

	orders, err := s.orderRepo.GetAll(ctx, params, shared.FilterByID(id, orderModel.FieldBookingID, orderModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking orders")

		return res, fmt.Errorf("failed to get booking orders: %w", err)
	}

	res.FromModel(booking)
	res.WithOrders(orders)

	return res, nil
}

// Update applies the constrained patch. New dates are re-checked against the other bookings of the room.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var booking model.Booking

	err = s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if current.ID == constant.Empty {
			return errBookingNotFound
		}

		fields := map[string]any{
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if req.ChangesDates() {
			if req.CheckInDate != nil {
				current.CheckInDate = *req.CheckInDate
			}

			if req.CheckOutDate != nil {
				current.CheckOutDate = *req.CheckOutDate
			}

			if !current.CheckInDate.Before(current.CheckOutDate) {
				return failure.BadRequestFromString("check_in_date must be before check_out_date") // nolint:wrapcheck
			}

			if current.Status != model.StatusCancelled {
				overlap, err := s.repo.HasOverlapTx(ctx, tx, current.RoomID, current.CheckInDate, current.CheckOutDate, current.ID)
				if err != nil {
					return fmt.Errorf("failed to check booking overlap: %w", err)
				}

				if overlap {
					return failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
				}
			}

			fields[model.FieldCheckInDate] = current.CheckInDate
			fields[model.FieldCheckOutDate] = current.CheckOutDate
		}

		if req.SpecialRequests != nil {
			current.SpecialRequests = *req.SpecialRequests
			fields[model.FieldSpecialRequests] = current.SpecialRequests
		}

		if req.TotalPrice != nil {
			current.TotalPrice = req.TotalPrice.Round(pricePrecision)
			fields[model.FieldTotalPrice] = current.TotalPrice
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return mapWriteError(err)
		}

		booking = current

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, err //nolint:wrapcheck
	}

	res.FromModel(booking)

	s.afterCommit(ctx, booking, constant.Empty, EventUpdated, user)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.transition(ctx, id, model.StatusConfirmed, EventConfirmed, nil)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.transition(ctx, id, model.StatusCheckedIn, EventCheckedIn, func(tx *sqlx.Tx, booking *model.Booking, _ map[string]any, user string) error {
		return s.setRoomStatus(ctx, tx, booking.RoomID, roomModel.StatusOccupied, user)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// CheckOut closes the bill: total_price becomes the stored room charge plus every order of the stay.
func (s *serviceImpl) CheckOut(ctx context.Context, id string) (res dto.CheckOutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(&err)

	ordersTotal := decimal.Zero

	booking, err := s.transition(ctx, id, model.StatusCheckedOut, EventCheckedOut, func(tx *sqlx.Tx, booking *model.Booking, fields map[string]any, user string) error {
		sum, err := s.orderRepo.SumTotalByBookingTx(ctx, tx, booking.ID)
		if err != nil {
			return fmt.Errorf("failed to sum booking orders: %w", err)
		}

		ordersTotal = sum
		booking.RoomCharges = booking.TotalPrice
		booking.TotalPrice = booking.TotalPrice.Add(sum)

		fields[model.FieldRoomCharges] = booking.RoomCharges
		fields[model.FieldTotalPrice] = booking.TotalPrice

		return s.setRoomStatus(ctx, tx, booking.RoomID, roomModel.StatusAvailable, user)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking, ordersTotal)

	return res, nil
}

// Cancel frees the room only when the guest has not arrived yet. A checked in room keeps its status
// until staff change it.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.transition(ctx, id, model.StatusCancelled, EventCancelled, func(tx *sqlx.Tx, booking *model.Booking, _ map[string]any, user string) error {
		if booking.Status == model.StatusPending || booking.Status == model.StatusConfirmed {
			return s.setRoomStatus(ctx, tx, booking.RoomID, roomModel.StatusAvailable, user)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return errBookingNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.afterCommit(ctx, booking, booking.Status, EventDeleted, user)

	return nil
}

// applyFunc runs inside the transition transaction after the guard passed. booking still
// carries the previous status; fields is the pending column update.
type applyFunc func(tx *sqlx.Tx, booking *model.Booking, fields map[string]any, user string) error

func (s *serviceImpl) transition(ctx context.Context, id string, to model.Status, event string, apply applyFunc) (model.Booking, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var (
		booking model.Booking
		from    model.Status
	)

	err := s.repo.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if current.ID == constant.Empty {
			return errBookingNotFound
		}

		if !model.CanTransition(current.Status, to) {
			return failure.IllegalStateTransition(fmt.Sprintf("cannot move booking from %s to %s", current.Status, to)) // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldStatus:        to,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if apply != nil {
			if err := apply(tx, &current, fields, user); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		from = current.Status
		current.Status = to
		booking = current

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking", id).Str("to", to.String()).Msg("failed to transition booking")

		return booking, err //nolint:wrapcheck
	}

	metrics.ObserveTransition(from.String(), to.String())
	s.afterCommit(ctx, booking, from, event, user)

	return booking, nil
}

func (s *serviceImpl) setRoomStatus(ctx context.Context, tx *sqlx.Tx, roomID string, status roomModel.Status, user string) error {
	fields := map[string]any{
		roomModel.FieldStatus:    status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}

	return nil
}

// afterCommit drops cached reads and publishes the event. Neither can fail the request.
func (s *serviceImpl) afterCommit(ctx context.Context, booking model.Booking, from model.Status, event, user string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		roomService.InvalidateRoom(c, s.cache, booking.RoomID)

		msg := kafka.Message{
			Key:       booking.ID,
			EventType: event,
			Value:     dto.NewEvent(booking, from, user),
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Booking, msg); err != nil {
			log.Error().Err(err).Str("event", event).Str("booking", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func mapWriteError(err error) error {
	if errors.Is(err, gRepo.ErrExclusionViolation) {
		return failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
	}

	return fmt.Errorf("failed to write booking: %w", err)
}
