package create_public_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/evtikhov/BMA-SchedulingService/internal/api/handlers"
	createBooking "github.com/evtikhov/BMA-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateOrTime     = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotAvailable      = "выбранный временной слот недоступен"
	msgOrganizationNotFound  = "организация не найдена"
	msgBookingTypeNotFound   = "услуга не найдена"
	msgOrganizationClosed    = "организация закрыта в выбранную дату"
	msgInvalidBookingDate    = "некорректная дата бронирования"
	msgDateTooFar            = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot       = "некорректный временной слот"
	msgTooLateToBook         = "слишком поздно для бронирования этого слота"
	msgInvalidInput          = "некорректные данные бронирования"
	msgStorageTimeout        = "сервис временно недоступен, попробуйте ещё раз"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/organizations/{orgId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationIDStr := vars["orgId"]
	organizationID, err := strconv.ParseInt(organizationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /organizations/{id}/bookings - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /organizations/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(organizationID)
	if err != nil {
		h.logger.Warn("POST /organizations/{id}/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		respondUseCaseError(w, h.logger, "POST /organizations/{id}/bookings", organizationID, err)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /organizations/{id}/bookings - Booking created successfully: reference=%s, organization_id=%d",
		result.Reference, organizationID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// respondUseCaseError маппит ошибки use case на HTTP статусы
func respondUseCaseError(w http.ResponseWriter, logger Logger, route string, organizationID int64, err error) {
	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		logger.Warn("%s - Slot not available: organization_id=%d", route, organizationID)
		handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

	case errors.Is(err, createBooking.ErrOrganizationNotFound):
		logger.Warn("%s - Organization not found: organization_id=%d", route, organizationID)
		handlers.RespondNotFound(w, msgOrganizationNotFound)

	case errors.Is(err, createBooking.ErrBookingTypeNotFound):
		logger.Warn("%s - Booking type not found: organization_id=%d", route, organizationID)
		handlers.RespondNotFound(w, msgBookingTypeNotFound)

	case errors.Is(err, createBooking.ErrOrganizationClosed):
		logger.Warn("%s - Organization closed: organization_id=%d", route, organizationID)
		handlers.RespondBadRequest(w, msgOrganizationClosed)

	case errors.Is(err, createBooking.ErrInvalidDate):
		logger.Warn("%s - Invalid booking date: organization_id=%d", route, organizationID)
		handlers.RespondBadRequest(w, msgInvalidBookingDate)

	case errors.Is(err, createBooking.ErrDateTooFarInFuture):
		logger.Warn("%s - Date too far in future: organization_id=%d", route, organizationID)
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, createBooking.ErrInvalidTimeSlot):
		logger.Warn("%s - Invalid time slot: organization_id=%d", route, organizationID)
		handlers.RespondBadRequest(w, msgInvalidTimeSlot)

	case errors.Is(err, createBooking.ErrTooLateToBook):
		logger.Warn("%s - Too late to book: organization_id=%d", route, organizationID)
		handlers.RespondBadRequest(w, msgTooLateToBook)

	case errors.Is(err, createBooking.ErrInvalidInput):
		logger.Warn("%s - Invalid input: organization_id=%d, error=%v", route, organizationID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createBooking.ErrStorageTimeout):
		logger.Error("%s - Storage timeout: organization_id=%d", route, organizationID)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageTimeout)

	default:
		logger.Error("%s - Failed to create booking: organization_id=%d, error=%v", route, organizationID, err)
		handlers.RespondInternalError(w)
	}
}
