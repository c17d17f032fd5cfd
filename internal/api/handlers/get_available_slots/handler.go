package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/evtikhov/BMA-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/evtikhov/BMA-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidBookingTypeID  = "некорректный ID услуги"
	msgInvalidDuration       = "некорректная длительность"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput          = "укажите ровно один из параметров: bookingTypeId или durationMinutes"
	msgOrganizationNotFound  = "организация не найдена"
	msgBookingTypeNotFound   = "услуга не найдена"
	msgInvalidBookingDate    = "некорректная дата"
	msgDateTooFar            = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{orgId}/available-slots
// Query params: date (required, YYYY-MM-DD), bookingTypeId | durationMinutes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationIDStr := vars["orgId"]
	organizationID, err := strconv.ParseInt(organizationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/available-slots - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	var bookingTypeID *int64
	if raw := r.URL.Query().Get("bookingTypeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /organizations/{id}/available-slots - Invalid booking type ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBookingTypeID)
			return
		}
		bookingTypeID = &id
	}

	var durationMinutes *int
	if raw := r.URL.Query().Get("durationMinutes"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /organizations/{id}/available-slots - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		durationMinutes = &duration
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /organizations/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(organizationID, bookingTypeID, durationMinutes, dateStr)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id}/available-slots - Organization not found: organization_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, getAvailableSlots.ErrBookingTypeNotFound):
			h.logger.Warn("GET /organizations/{id}/available-slots - Booking type not found: organization_id=%d", organizationID)
			handlers.RespondNotFound(w, msgBookingTypeNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /organizations/{id}/available-slots - Invalid date: organization_id=%d", organizationID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /organizations/{id}/available-slots - Date too far in future: organization_id=%d", organizationID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /organizations/{id}/available-slots - Invalid input: organization_id=%d, error=%v", organizationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /organizations/{id}/available-slots - Failed to get slots: organization_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /organizations/{id}/available-slots - Slots retrieved successfully: organization_id=%d, date=%s, slots_count=%d",
		organizationID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
