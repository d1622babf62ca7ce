package inquiry

import (
	"hotelops/infras/otel"
	"hotelops/internal/domains/inquiry/model/dto"
	"hotelops/internal/domains/inquiry/service"
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
	service service.Inquiry
	otel    otel.Otel
}

func New(service service.Inquiry, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/inquiries", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateInquiry)
		routerGroup.Get("/", handler.GetInquiries)
		routerGroup.Get("/{id}", handler.GetInquiryByID)
		routerGroup.Patch("/{id}", handler.UpdateInquiry)
		routerGroup.Delete("/{id}", handler.DeleteInquiry)
		routerGroup.Post("/webhook/whatsapp", handler.WhatsAppWebhook)
	})
}

// CreateInquiry records a guest inquiry. Missing translations are generated.
// @Summary Create an inquiry
// @Tags Inquiry
// @Accept json
// @Produce json
// @Param request body dto.CreateInquiryRequest true "Inquiry"
// @Success 201 {object} response.Data[dto.InquiryResponse]
// @Failure 400 {object} response.Error
// @Router /v1/inquiries [post]
// @Security BearerAuth
func (handler *Handler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInquiry")
	defer scope.End()

	var req dto.CreateInquiryRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create inquiry")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetInquiries lists inquiries.
// @Summary Get all inquiries
// @Tags Inquiry
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetInquiriesResponse]
// @Router /v1/inquiries [get]
// @Security BearerAuth
func (handler *Handler) GetInquiries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInquiries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	list := dto.ListInquiryRequest{Status: r.URL.Query().Get("status")}

	res, err := handler.service.GetAll(ctx, queryParams, list)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get inquiries")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetInquiryByID returns one inquiry.
// @Summary Get an inquiry by ID
// @Tags Inquiry
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} response.Data[dto.InquiryResponse]
// @Failure 404 {object} response.Error
// @Router /v1/inquiries/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetInquiryByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInquiryByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get inquiry by ID")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateInquiry sets status or notes.
// @Summary Update an inquiry
// @Tags Inquiry
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body dto.UpdateInquiryRequest true "Fields to update"
// @Success 200 {object} response.Data[dto.InquiryResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/inquiries/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateInquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInquiry")
	defer scope.End()

	var req dto.UpdateInquiryRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update inquiry")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteInquiry removes an inquiry.
// @Summary Delete an inquiry
// @Tags Inquiry
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/inquiries/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInquiry")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete inquiry")
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Inquiry deleted successfully")
}

// WhatsAppWebhook records an inquiry from a WhatsApp message.
// @Summary WhatsApp inquiry intake
// @Description Accepts Twilio form posts or JSON. Processing failures are reported in the body with 200.
// @Tags Inquiry
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param From formData string true "Sender, optionally prefixed with whatsapp:"
// @Param Body formData string true "Message text"
// @Param ProfileName formData string false "Sender display name"
// @Success 200 {object} gDto.WebhookResponse
// @Failure 400 {object} response.Error
// @Router /v1/inquiries/webhook/whatsapp [post]
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
