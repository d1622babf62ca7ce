package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelops/config"
	"hotelops/infras/llm"
	"hotelops/infras/metrics"
	"hotelops/infras/otel"
	bookingModel "hotelops/internal/domains/booking/model"
	bookingRepo "hotelops/internal/domains/booking/repository"
	"hotelops/internal/domains/maintenance/model"
	"hotelops/internal/domains/maintenance/model/dto"
	"hotelops/internal/domains/maintenance/repository"
	roomModel "hotelops/internal/domains/room/model"
	roomRepo "hotelops/internal/domains/room/repository"
	userRepo "hotelops/internal/domains/user/repository"
	"hotelops/shared"
	"hotelops/shared/cache"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMaintenance    = "maintenance:get"
	cacheGetAllMaintenance = "maintenance:gets"
	cacheCountMaintenance  = "maintenance:count"

	intakeChannel = "maintenance"
	summaryLength = 100
)

const (
	msgIntakeAccepted  = "Maintenance request received. Hotel staff will assist you shortly."
	msgUnknownUser     = "User not found. Please contact hotel reception."
	msgNoActiveBooking = "No active booking found. Please contact hotel reception."
	msgIntakeFailed    = "Error processing your request. Please contact hotel reception."
)

type Maintenance interface {
	Create(ctx context.Context, req dto.CreateMaintenanceRequest) (dto.MaintenanceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, list dto.ListMaintenanceRequest) (dto.GetMaintenanceResponse, error)
	Get(ctx context.Context, id string) (dto.MaintenanceResponse, error)
	Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) (dto.MaintenanceResponse, error)
	Delete(ctx context.Context, id string) error
	// IngestWhatsApp never returns an error. Failures are reported in the payload.
	IngestWhatsApp(ctx context.Context, msg gDto.WhatsAppMessage) gDto.WebhookResponse
}

type serviceImpl struct {
	repo        repository.Maintenance
	userRepo    userRepo.User
	bookingRepo bookingRepo.Booking
	roomRepo    roomRepo.Room
	assistant   llm.Assistant
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Maintenance,
	userRepo userRepo.User,
	bookingRepo bookingRepo.Booking,
	roomRepo roomRepo.Room,
	assistant llm.Assistant,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Maintenance {
	return &serviceImpl{
		repo:        repo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		assistant:   assistant,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMaintenanceRequest) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if room.HotelID != req.HotelID {
		return res, failure.BadRequestFromString("room does not belong to the hotel") // nolint:wrapcheck
	}

	mod := req.ToModel(user)

	if err = s.repo.Insert(ctx, mod); err != nil {
		log.Error().Err(err).Msg("failed to create maintenance request")

		return res, fmt.Errorf("failed to create maintenance request: %w", err)
	}

	mod.RoomNumber = room.RoomNumber
	mod.HotelName = room.HotelName

	res.FromModel(mod)

	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, list dto.ListMaintenanceRequest) (res dto.GetMaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	// the list ordering is fixed, caller sort input is ignored.
	req.SortBy, req.SortDir = constant.Empty, constant.Empty
	req.Sorts = list.Sorts()
	filter := list.Filter()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMaintenance, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance requests")

		return res, fmt.Errorf("failed to get maintenance requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMaintenance, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance requests")

		return res, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	mod, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(mod)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance request to cache")
		}
	}()

	return res, nil
}

// Update patches the request. resolved_at is stamped the first time it becomes resolved
// and kept through any later status change.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.Empty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	mod, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	fields := req.Apply(&mod)
	now := timezone.Now()

	if mod.Status == model.StatusResolved && mod.ResolvedAt == nil {
		fields[model.FieldResolvedAt] = now
		mod.ResolvedAt = &now
	}

	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update maintenance request")

		return res, fmt.Errorf("failed to update maintenance request: %w", err)
	}

	mod.ModifiedAt = now
	mod.ModifiedBy = user

	res.FromModel(mod)

	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if maintenance request exists")

		return fmt.Errorf("failed to check if maintenance request exists: %w", err)
	}

	if !exist {
		return failure.NotFound("maintenance request not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete maintenance request")

		return fmt.Errorf("failed to delete maintenance request: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// IngestWhatsApp files a request for the sender's current stay: phone, then user, then the
// latest checked in booking, then categorization.
func (s *serviceImpl) IngestWhatsApp(ctx context.Context, msg gDto.WhatsAppMessage) (res gDto.WebhookResponse) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IngestWhatsApp")
	defer scope.End()

	phone := msg.Phone()
	reject := func(message string) gDto.WebhookResponse {
		metrics.ObserveIntake(intakeChannel, metrics.IntakeRejected)

		return gDto.WebhookResponse{Success: false, Message: message}
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("phone", phone).Msg("failed to look up user by phone")

		return reject(msgIntakeFailed)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("phone", phone).Msg("maintenance message from unknown phone number")

		return reject(msgUnknownUser)
	}

	booking, found, err := s.activeBooking(ctx, user.ID)
	if err != nil {
		scope.TraceError(err)

		return reject(msgIntakeFailed)
	}

	if !found {
		log.Warn().Str("user_id", user.ID).Msg("maintenance message without an active booking")

		return reject(msgNoActiveBooking)
	}

	analysis := s.categorize(ctx, msg.Body)

	aiAnalysis, err := json.Marshal(analysis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal maintenance analysis")
	}

	userID := user.ID
	bookingID := booking.ID
	create := dto.CreateMaintenanceRequest{
		HotelID:                booking.HotelID,
		RoomID:                 booking.RoomID,
		BookingID:              &bookingID,
		UserID:                 &userID,
		Description:            analysis.Summary,
		DescriptionAmharic:     analysis.SummaryAmharic,
		Category:               model.Category(analysis.Category),
		Priority:               model.Priority(analysis.Priority),
		Status:                 model.StatusPending,
		PhoneNumber:            phone,
		OriginalMessage:        msg.Body,
		OriginalMessageAmharic: analysis.MessageAmharic,
		AIAnalysis:             string(aiAnalysis),
	}
	mod := create.ToModel(constant.ContextWebhook)

	if err = s.repo.Insert(ctx, mod); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create maintenance request from whatsapp")

		return reject(msgIntakeFailed)
	}

	s.invalidate(ctx, constant.Empty)

	metrics.ObserveIntake(intakeChannel, metrics.IntakeAccepted)

	return gDto.WebhookResponse{Success: true, Message: msgIntakeAccepted, RequestID: mod.ID}
}

func (s *serviceImpl) activeBooking(ctx context.Context, userID string) (bookingModel.Booking, bool, error) {
	params := gDto.QueryParams{
		Page:  1,
		Limit: 1,
		Sorts: []gDto.Sort{{Field: bookingModel.FieldCheckInDate, Dir: gDto.SortDirDesc}},
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldUserID, Operator: gDto.FilterOperatorEq, Value: userID, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorEq, Value: bookingModel.StatusCheckedIn, Table: bookingModel.TableName},
		},
	}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get active booking")

		return bookingModel.Booking{}, false, fmt.Errorf("failed to get active booking: %w", err)
	}

	if len(bookings) == 0 {
		return bookingModel.Booking{}, false, nil
	}

	return bookings[0], true, nil
}

// categorize falls back to other/medium with a truncated summary when the assistant fails
// or answers outside the known categories.
func (s *serviceImpl) categorize(ctx context.Context, message string) llm.MaintenanceAnalysis {
	analysis, err := s.assistant.CategorizeMaintenance(ctx, message)
	if err != nil {
		log.Warn().Err(err).Msg("failed to categorize maintenance message, using fallback")
		metrics.ObserveIntake(intakeChannel, metrics.IntakeFallback)

		summary := shared.Truncate(message, summaryLength)

		return llm.MaintenanceAnalysis{
			Category:       string(model.CategoryOther),
			Priority:       string(model.PriorityMedium),
			Summary:        summary,
			SummaryAmharic: summary,
			MessageAmharic: message,
		}
	}

	if !model.Category(analysis.Category).Valid() {
		analysis.Category = string(model.CategoryOther)
	}

	if !model.Priority(analysis.Priority).Valid() {
		analysis.Priority = string(model.PriorityMedium)
	}

	if analysis.Summary == constant.Empty {
		analysis.Summary = shared.Truncate(message, summaryLength)
	}

	return analysis
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Maintenance, error) {
	mod, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance request")

		return mod, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	if mod.ID == constant.Empty {
		return mod, failure.NotFound("maintenance request not found") // nolint:wrapcheck
	}

	return mod, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete maintenance request from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance)
		shared.InvalidateCaches(c, s.cache, cacheCountMaintenance)
	}()
}
