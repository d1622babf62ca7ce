package maintenance

import (
	"hotelops/infras/otel"
	"hotelops/internal/domains/maintenance/model/dto"
	"hotelops/internal/domains/maintenance/service"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/validator"
	"hotelops/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Maintenance
	otel    otel.Otel
}

func New(service service.Maintenance, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/maintenance", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMaintenance)
		routerGroup.Get("/", handler.GetMaintenanceRequests)
		routerGroup.Get("/{id}", handler.GetMaintenanceByID)
		routerGroup.Patch("/{id}", handler.UpdateMaintenance)
		routerGroup.Delete("/{id}", handler.DeleteMaintenance)
		routerGroup.Post("/webhook/whatsapp", handler.WhatsAppWebhook)
	})
}

// CreateMaintenance files a maintenance request.
// @Summary Create a maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.CreateMaintenanceRequest true "Maintenance request"
// @Success 201 {object} response.Data[dto.MaintenanceResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/maintenance [post]
// @Security BearerAuth
func (handler *Handler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMaintenance")
	defer scope.End()

	var req dto.CreateMaintenanceRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create maintenance request")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMaintenanceRequests lists maintenance requests. Filtering by priority, category or
// status switches to triage ordering.
// @Summary Get all maintenance requests
// @Tags Maintenance
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param hotel_id query string false "Filter by hotel"
// @Param priority query string false "Filter by priority"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetMaintenanceResponse]
// @Router /v1/maintenance [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	list := dto.ListMaintenanceRequest{
		HotelID:  query.Get("hotel_id"),
		Priority: query.Get("priority"),
		Category: query.Get("category"),
		Status:   query.Get("status"),
	}

	res, err := handler.service.GetAll(ctx, queryParams, list)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance requests")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetMaintenanceByID returns one maintenance request.
// @Summary Get a maintenance request by ID
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance request ID"
// @Success 200 {object} response.Data[dto.MaintenanceResponse]
// @Failure 404 {object} response.Error
// @Router /v1/maintenance/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance request by ID")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateMaintenance patches a maintenance request.
// @Summary Update a maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance request ID"
// @Param request body dto.UpdateMaintenanceRequest true "Fields to update"
// @Success 200 {object} response.Data[dto.MaintenanceResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/maintenance/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMaintenance")
	defer scope.End()

	var req dto.UpdateMaintenanceRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update maintenance request")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteMaintenance removes a maintenance request.
// @Summary Delete a maintenance request
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance request ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/maintenance/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMaintenance")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete maintenance request")
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Maintenance request deleted successfully")
}

// WhatsAppWebhook files a maintenance request from a guest's WhatsApp message.
// @Summary WhatsApp maintenance intake
// @Description Accepts Twilio form posts or JSON. Processing failures are reported in the body with 200.
// @Tags Maintenance
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param From formData string true "Sender, optionally prefixed with whatsapp:"
// @Param Body formData string true "Message text"
// @Success 200 {object} gDto.WebhookResponse
// @Failure 400 {object} response.Error
// @Router /v1/maintenance/webhook/whatsapp [post]
func (handler *Handler) WhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".WhatsAppWebhook")
	defer scope.End()

	var msg gDto.WhatsAppMessage
	if err := msg.FromRequest(r); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read webhook payload")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	if err := validator.ValidateStruct(&msg); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, handler.service.IngestWhatsApp(ctx, msg))
}
