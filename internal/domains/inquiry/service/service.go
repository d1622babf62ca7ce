package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelops/config"
	"hotelops/infras/llm"
	"hotelops/infras/metrics"
	"hotelops/infras/otel"
	"hotelops/internal/domains/inquiry/model"
	"hotelops/internal/domains/inquiry/model/dto"
	"hotelops/internal/domains/inquiry/repository"
	"hotelops/shared"
	"hotelops/shared/cache"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetInquiry    = "inquiry:get"
	cacheGetAllInquiry = "inquiry:gets"
	cacheCountInquiry  = "inquiry:count"

	intakeChannel      = "inquiry"
	summaryLength      = 100
	defaultProfileName = "Guest"
)

const (
	msgInquiryAccepted = "Thank you for your inquiry! Our team will get back to you shortly."
	msgInquiryFailed   = "Error processing your inquiry. Please try again or contact us directly."
)

type Inquiry interface {
	Create(ctx context.Context, req dto.CreateInquiryRequest) (dto.InquiryResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, list dto.ListInquiryRequest) (dto.GetInquiriesResponse, error)
	Get(ctx context.Context, id string) (dto.InquiryResponse, error)
	Update(ctx context.Context, req dto.UpdateInquiryRequest, id string) (dto.InquiryResponse, error)
	Delete(ctx context.Context, id string) error
	// IngestWhatsApp never returns an error. Failures are reported in the payload.
	IngestWhatsApp(ctx context.Context, msg gDto.WhatsAppMessage) gDto.WebhookResponse
}

type serviceImpl struct {
	repo      repository.Inquiry
	assistant llm.Assistant
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Inquiry, assistant llm.Assistant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Inquiry {
	return &serviceImpl{
		repo:      repo,
		assistant: assistant,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create stores the inquiry. Missing translations are filled in by the assistant.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInquiryRequest) (res dto.InquiryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == constant.Empty {
		user = constant.ContextGuest
	}

	if !req.Translated() {
		s.enrich(ctx, &req)
	}

	mod := req.ToModel(user)

	if err = s.repo.Insert(ctx, mod); err != nil {
		log.Error().Err(err).Msg("failed to create inquiry")

		return res, fmt.Errorf("failed to create inquiry: %w", err)
	}

	res.FromModel(mod)

	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, list dto.ListInquiryRequest) (res dto.GetInquiriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.SortBy, req.SortDir = constant.Empty, constant.Empty
	req.Sorts = list.Sorts()
	filter := list.Filter()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInquiry, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get inquiries")

		return res, fmt.Errorf("failed to get inquiries: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inquiries to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountInquiry, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count inquiries")

		return res, fmt.Errorf("failed to count inquiries: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inquiry count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InquiryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetInquiry, id)

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
			log.Error().Err(err).Msg("failed to save inquiry to cache")
		}
	}()

	return res, nil
}

// Update stamps addressed_at on the first move to addressed only.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInquiryRequest, id string) (res dto.InquiryResponse, err error) {
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

	if mod.Status == model.StatusAddressed && mod.AddressedAt == nil {
		fields[model.FieldAddressedAt] = now
		mod.AddressedAt = &now
	}

	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = user

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update inquiry")

		return res, fmt.Errorf("failed to update inquiry: %w", err)
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
		log.Error().Err(err).Msg("failed to check if inquiry exists")

		return fmt.Errorf("failed to check if inquiry exists: %w", err)
	}

	if !exist {
		return failure.NotFound("inquiry not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete inquiry")

		return fmt.Errorf("failed to delete inquiry: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) IngestWhatsApp(ctx context.Context, msg gDto.WhatsAppMessage) gDto.WebhookResponse {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IngestWhatsApp")
	defer scope.End()

	name := msg.ProfileName
	if name == constant.Empty {
		name = defaultProfileName
	}

	req := dto.CreateInquiryRequest{
		Name:        name,
		PhoneNumber: msg.Phone(),
		Message:     msg.Body,
		Status:      model.StatusReceived,
	}

	s.enrich(ctx, &req)

	mod := req.ToModel(constant.ContextWebhook)

	if err := s.repo.Insert(ctx, mod); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create inquiry from whatsapp")
		metrics.ObserveIntake(intakeChannel, metrics.IntakeRejected)

		return gDto.WebhookResponse{Success: false, Message: msgInquiryFailed}
	}

	s.invalidate(ctx, constant.Empty)

	metrics.ObserveIntake(intakeChannel, metrics.IntakeAccepted)

	return gDto.WebhookResponse{Success: true, Message: msgInquiryAccepted, RequestID: mod.ID}
}

// enrich fills translations, language and analysis. When the assistant fails both
// translations are the original message and the language is unknown.
func (s *serviceImpl) enrich(ctx context.Context, req *dto.CreateInquiryRequest) {
	analysis, err := s.assistant.AnalyzeInquiry(ctx, req.Name, req.Message)
	if err != nil {
		log.Warn().Err(err).Msg("failed to analyze inquiry, using fallback")
		metrics.ObserveIntake(intakeChannel, metrics.IntakeFallback)

		analysis = llm.InquiryAnalysis{
			MessageEnglish:   req.Message,
			MessageAmharic:   req.Message,
			OriginalLanguage: model.LanguageUnknown,
			Summary:          shared.Truncate(req.Message, summaryLength),
		}
	}

	if analysis.OriginalLanguage == constant.Empty {
		analysis.OriginalLanguage = model.LanguageUnknown
	}

	if analysis.Summary == constant.Empty {
		analysis.Summary = shared.Truncate(req.Message, summaryLength)
	}

	if req.MessageEnglish == constant.Empty {
		req.MessageEnglish = analysis.MessageEnglish
	}

	if req.MessageAmharic == constant.Empty {
		req.MessageAmharic = analysis.MessageAmharic
	}

	if req.OriginalLanguage == constant.Empty {
		req.OriginalLanguage = analysis.OriginalLanguage
	}

	if req.AIAnalysis == constant.Empty {
		payload, err := json.Marshal(map[string]string{
			"summary":          analysis.Summary,
			"originalLanguage": analysis.OriginalLanguage,
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to marshal inquiry analysis")

			return
		}

		req.AIAnalysis = string(payload)
	}
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Inquiry, error) {
	mod, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get inquiry")

		return mod, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if mod.ID == constant.Empty {
		return mod, failure.NotFound("inquiry not found") // nolint:wrapcheck
	}

	return mod, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInquiry, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete inquiry from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInquiry)
		shared.InvalidateCaches(c, s.cache, cacheCountInquiry)
	}()
}
