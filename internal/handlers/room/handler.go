package room

import (
	"hotelops/infras/otel"
	"hotelops/internal/domains/room/model"
	"hotelops/internal/domains/room/model/dto"
	"hotelops/internal/domains/room/service"
	"hotelops/shared"
	"hotelops/shared/constant"
	gDto "hotelops/shared/dto"
	"hotelops/shared/failure"
	"hotelops/shared/timezone"
	"hotelops/shared/validator"
	"hotelops/transport/http/response"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	queryCheckIn  = "check_in"
	queryCheckOut = "check_out"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Get("/available", handler.GetAvailableRooms)
		routerGroup.Get("/hotel/{hotelId}", handler.GetRoomsByHotel)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Patch("/{id}/status", handler.UpdateRoomStatus)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a room under an existing hotel, optionally uploading an image.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param hotel_id formData string true "Hotel ID"
// @Param room_number formData string true "Room number"
// @Param type formData string true "standard, deluxe, suite or presidential"
// @Param capacity formData int true "Guest capacity"
// @Param beds formData int false "Beds, defaults to 1"
// @Param bathrooms formData int false "Bathrooms, defaults to 1"
// @Param price_per_night formData number true "Price per night"
// @Param floor formData int false "Floor"
// @Param description formData string false "Description"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.CreateRoomRequest{
		HotelID:     r.FormValue(model.FieldHotelID),
		RoomNumber:  r.FormValue(model.FieldRoomNumber),
		Type:        model.Type(r.FormValue(model.FieldType)),
		Description: r.FormValue(model.FieldDescription),
	}

	var err error

	if req.Capacity, err = formInt(r.Form, model.FieldCapacity); err != nil {
		response.WithError(w, err)

		return
	}

	if req.Floor, err = formInt(r.Form, model.FieldFloor); err != nil {
		response.WithError(w, err)

		return
	}

	if req.Beds, err = formIntPtr(r.Form, model.FieldBeds); err != nil {
		response.WithError(w, err)

		return
	}

	if req.Bathrooms, err = formIntPtr(r.Form, model.FieldBathrooms); err != nil {
		response.WithError(w, err)

		return
	}

	price, err := decimal.NewFromString(r.FormValue(model.FieldPricePerNight))
	if err != nil {
		response.WithError(w, failure.BadRequestFromString("price_per_night must be a number"))

		return
	}

	req.PricePerNight = price

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetRooms lists rooms.
// @Summary Get all rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param hotel_id query string false "Filter by hotel"
// @Param type query string false "Filter by room type"
// @Param status query string false "Filter by room status"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	rooms, err := handler.service.GetAll(ctx, queryParams, roomFilter(query.Get(model.FieldHotelID), query.Get(model.FieldType), query.Get(model.FieldStatus)))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomsByHotel lists the rooms of one hotel.
// @Summary Get rooms of a hotel
// @Tags Room
// @Produce json
// @Param hotelId path string true "Hotel ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Router /v1/rooms/hotel/{hotelId} [get]
func (handler *Handler) GetRoomsByHotel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomsByHotel")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	rooms, err := handler.service.GetAll(ctx, queryParams, roomFilter(chi.URLParam(r, constant.RequestParamHotelID), "", ""))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotel rooms")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetAvailableRooms searches rooms free for a stay.
// @Summary Search available rooms
// @Description Rooms with status available and no overlapping booking in [check_in, check_out).
// @Tags Room
// @Produce json
// @Param hotel_id query string false "Hotel ID"
// @Param check_in query string false "Check-in, RFC 3339 or YYYY-MM-DD"
// @Param check_out query string false "Check-out, RFC 3339 or YYYY-MM-DD"
// @Param beds query int false "Exact number of beds"
// @Param bathrooms query int false "Exact number of bathrooms"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Data[dto.AvailableRoomsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/rooms/available [get]
func (handler *Handler) GetAvailableRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	req := dto.AvailableRoomsRequest{HotelID: query.Get(model.FieldHotelID)}

	var err error

	for key, dest := range map[string]**int{model.FieldBeds: &req.Beds, model.FieldBathrooms: &req.Bathrooms} {
		if *dest, err = formIntPtr(query, key); err != nil {
			response.WithError(w, err)

			return
		}
	}

	for key, dest := range map[string]**time.Time{queryCheckIn: &req.CheckIn, queryCheckOut: &req.CheckOut} {
		value := query.Get(key)
		if value == "" {
			continue
		}

		parsed, err := timezone.ParseStay(value)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString(key+" must be a date"))

			return
		}

		*dest = &parsed
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	rooms, err := handler.service.GetAvailable(ctx, queryParams, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available rooms")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates room attributes. Status is changed through UpdateRoomStatus.
// @Summary Update a room by ID
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param room_number formData string false "Room number"
// @Param type formData string false "Room type"
// @Param capacity formData int false "Guest capacity"
// @Param beds formData int false "Beds"
// @Param bathrooms formData int false "Bathrooms"
// @Param price_per_night formData number false "Price per night"
// @Param floor formData int false "Floor"
// @Param description formData string false "Description"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UpdateRoomRequest{
		RoomNumber:  r.FormValue(model.FieldRoomNumber),
		Type:        model.Type(r.FormValue(model.FieldType)),
		Description: r.FormValue(model.FieldDescription),
	}

	var err error

	for key, dest := range map[string]**int{
		model.FieldCapacity:  &req.Capacity,
		model.FieldBeds:      &req.Beds,
		model.FieldBathrooms: &req.Bathrooms,
		model.FieldFloor:     &req.Floor,
	} {
		if *dest, err = formIntPtr(r.Form, key); err != nil {
			response.WithError(w, err)

			return
		}
	}

	if price := r.FormValue(model.FieldPricePerNight); price != "" {
		value, err := decimal.NewFromString(price)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("price_per_night must be a number"))

			return
		}

		req.PricePerNight = &value
	}

	file, fileHeader, err := r.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// UpdateRoomStatus sets the room status directly.
// @Summary Update a room's status
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomStatusRequest true "New status"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoomStatus")
	defer scope.End()

	var req dto.UpdateRoomStatusRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room status")
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room status updated successfully")
}

// DeleteRoom deletes a room.
// @Summary Delete a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

func roomFilter(hotelID, roomType, status string) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, term := range [][2]string{
		{model.FieldHotelID, hotelID},
		{model.FieldType, roomType},
		{model.FieldStatus, status},
	} {
		if term[1] == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    term[0],
			Operator: gDto.FilterOperatorEq,
			Value:    term[1],
			Table:    model.TableName,
		})
	}

	return filterGroup
}

func formInt(values url.Values, key string) (int, error) {
	value := values.Get(key)
	if value == "" {
		return 0, nil
	}

	n, err := shared.ConvertStringToInt(value)
	if err != nil {
		return 0, failure.BadRequestFromString(key + " must be a number") // nolint:wrapcheck
	}

	return n, nil
}

func formIntPtr(values url.Values, key string) (*int, error) {
	if values.Get(key) == "" {
		return nil, nil //nolint:nilnil
	}

	n, err := formInt(values, key)
	if err != nil {
		return nil, err
	}

	return &n, nil
}
