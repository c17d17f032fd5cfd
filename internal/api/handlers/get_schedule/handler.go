package get_schedule

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
	msgOrganizationNotFound  = "организация не найдена"
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

// Handle GET /api/v1/organizations/{orgId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	organizationIDStr := vars["orgId"]
	organizationID, err := strconv.ParseInt(organizationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/schedule - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), organizationID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id}/schedule - Organization not found: organization_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		default:
			h.logger.Error("GET /organizations/{id}/schedule - Failed to get schedule: organization_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /organizations/{id}/schedule - Schedule retrieved successfully: organization_id=%d, rules=%d",
		organizationID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
