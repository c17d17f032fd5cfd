package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/evtikhov/BMA-SchedulingService/internal/api/handlers"
	"github.com/evtikhov/BMA-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgOrganizationNotFound  = "организация не найдена"
	msgInvalidWeekday        = "день недели должен быть от 0 до 6"
	msgInvalidTimeRange      = "время открытия должно быть раньше времени закрытия"
	msgInvalidInput          = "некорректные данные расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/organizations/{orgId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationIDStr := vars["orgId"]
	organizationID, err := strconv.ParseInt(organizationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /organizations/{id}/schedule - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /organizations/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSchedule(r.Context(), req.ToServiceRequest(organizationID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrOrganizationNotFound):
			h.logger.Warn("PUT /organizations/{id}/schedule - Organization not found: organization_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, schedule.ErrInvalidWeekday):
			h.logger.Warn("PUT /organizations/{id}/schedule - Invalid weekday: organization_id=%d", organizationID)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			h.logger.Warn("PUT /organizations/{id}/schedule - Invalid time range: organization_id=%d", organizationID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /organizations/{id}/schedule - Invalid input: organization_id=%d, error=%v", organizationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /organizations/{id}/schedule - Failed to update schedule: organization_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /organizations/{id}/schedule - Schedule updated successfully: organization_id=%d, rules=%d",
		organizationID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
