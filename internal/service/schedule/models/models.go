package models

import (
	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// Request модели

// RuleInput правило доступности на один день недели
type RuleInput struct {
	Weekday   int    `json:"weekday"`  // 0-6, Sunday=0
	OpenTime  string `json:"openTime"` // "09:00"
	CloseTime string `json:"closeTime"`
	Active    bool   `json:"active"`
}

// SettingsInput настройки планирования организации
type SettingsInput struct {
	BufferMinutes           int  `json:"bufferMinutes"`
	MinBookingNoticeMinutes int  `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int  `json:"advanceBookingDays"` // 0 = без ограничения
	RequiresConfirmation    bool `json:"requiresConfirmation"`
}

// UpdateScheduleRequest запрос на обновление расписания организации.
// Правила опциональны: пустой список оставляет текущие правила без изменений.
type UpdateScheduleRequest struct {
	OrganizationID int64          `json:"organizationId"`
	Rules          []RuleInput    `json:"rules,omitempty"`
	Settings       *SettingsInput `json:"settings,omitempty"`
}

// Response модели

// RuleResponse правило доступности
type RuleResponse struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	Active    bool   `json:"active"`
}

// SettingsResponse настройки планирования
type SettingsResponse struct {
	BufferMinutes           int  `json:"bufferMinutes"`
	MinBookingNoticeMinutes int  `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int  `json:"advanceBookingDays"`
	RequiresConfirmation    bool `json:"requiresConfirmation"`
}

// ScheduleResponse расписание организации: правила по дням недели и настройки
type ScheduleResponse struct {
	OrganizationID int64            `json:"organizationId"`
	Rules          []RuleResponse   `json:"rules"`
	Settings       SettingsResponse `json:"settings"`
}

// Методы конвертации

// ToDomainRule конвертирует input в domain модель
func (r *RuleInput) ToDomainRule(organizationID int64) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		OrganizationID: organizationID,
		Weekday:        r.Weekday,
		OpenTime:       types.TimeString(r.OpenTime),
		CloseTime:      types.TimeString(r.CloseTime),
		Active:         r.Active,
	}
}

// ToDomainSettings конвертирует input в domain модель
func (s *SettingsInput) ToDomainSettings(organizationID int64) *domain.SchedulingSettings {
	return &domain.SchedulingSettings{
		OrganizationID:          organizationID,
		BufferMinutes:           s.BufferMinutes,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		RequiresConfirmation:    s.RequiresConfirmation,
	}
}

// FromDomainSchedule собирает ответ из правил и настроек
func FromDomainSchedule(organizationID int64, rules []*domain.AvailabilityRule, settings *domain.SchedulingSettings) *ScheduleResponse {
	resp := &ScheduleResponse{
		OrganizationID: organizationID,
		Rules:          make([]RuleResponse, 0, len(rules)),
		Settings: SettingsResponse{
			BufferMinutes:           settings.BufferMinutes,
			MinBookingNoticeMinutes: settings.MinBookingNoticeMinutes,
			AdvanceBookingDays:      settings.AdvanceBookingDays,
			RequiresConfirmation:    settings.RequiresConfirmation,
		},
	}

	for _, rule := range rules {
		resp.Rules = append(resp.Rules, RuleResponse{
			Weekday:   rule.Weekday,
			OpenTime:  rule.OpenTime.String(),
			CloseTime: rule.CloseTime.String(),
			Active:    rule.Active,
		})
	}

	return resp
}
