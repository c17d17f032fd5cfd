package create_portal_booking

import (
	"errors"
	"net/http"

	"github.com/evtikhov/BMA-SchedulingService/internal/api/handlers"
	"github.com/evtikhov/BMA-SchedulingService/internal/api/middleware"
	createBooking "github.com/evtikhov/BMA-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingClientID      = "отсутствует ID клиента"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgOrganizationNotFound = "организация не найдена"
	msgBookingTypeNotFound  = "услуга не найдена"
	msgOrganizationClosed   = "организация закрыта в выбранную дату"
	msgInvalidBookingDate   = "некорректная дата бронирования"
	msgDateTooFar           = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot      = "некорректный временной слот"
	msgTooLateToBook        = "слишком поздно для бронирования этого слота"
	msgInvalidInput         = "некорректные данные бронирования"
	msgStorageTimeout       = "сервис временно недоступен, попробуйте ещё раз"
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

// Handle POST /api/v1/portal/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		h.logger.Warn("POST /portal/bookings - Missing client ID")
		handlers.RespondUnauthorized(w, msgMissingClientID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /portal/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /portal/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /portal/bookings - Slot not available: client_id=%d, organization_id=%d", clientID, req.OrganizationID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrOrganizationNotFound):
			h.logger.Warn("POST /portal/bookings - Organization not found: organization_id=%d", req.OrganizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, createBooking.ErrBookingTypeNotFound):
			h.logger.Warn("POST /portal/bookings - Booking type not found: organization_id=%d", req.OrganizationID)
			handlers.RespondNotFound(w, msgBookingTypeNotFound)

		case errors.Is(err, createBooking.ErrOrganizationClosed):
			h.logger.Warn("POST /portal/bookings - Organization closed: organization_id=%d", req.OrganizationID)
			handlers.RespondBadRequest(w, msgOrganizationClosed)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /portal/bookings - Invalid booking date: organization_id=%d", req.OrganizationID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /portal/bookings - Date too far in future: organization_id=%d", req.OrganizationID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /portal/bookings - Invalid time slot: organization_id=%d", req.OrganizationID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /portal/bookings - Too late to book: organization_id=%d", req.OrganizationID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /portal/bookings - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrStorageTimeout):
			h.logger.Error("POST /portal/bookings - Storage timeout: organization_id=%d", req.OrganizationID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageTimeout)

		default:
			h.logger.Error("POST /portal/bookings - Failed to create booking: client_id=%d, organization_id=%d, error=%v",
				clientID, req.OrganizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /portal/bookings - Booking created successfully: booking_id=%d, client_id=%d, organization_id=%d",
		result.ID, clientID, req.OrganizationID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
