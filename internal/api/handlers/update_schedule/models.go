package update_schedule

import (
	"github.com/evtikhov/BMA-SchedulingService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Rules    []models.RuleInput    `json:"rules,omitempty"`
	Settings *models.SettingsInput `json:"settings,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(organizationID int64) *models.UpdateScheduleRequest {
	return &models.UpdateScheduleRequest{
		OrganizationID: organizationID,
		Rules:          r.Rules,
		Settings:       r.Settings,
	}
}
