package domain

import "time"

// SchedulingSettings represents the per-organization booking policy
type SchedulingSettings struct {
	ID                      int64
	OrganizationID          int64
	BufferMinutes           int  // Обязательный зазор до и после каждого бронирования
	MinBookingNoticeMinutes int  // Минимальное время до начала слота при бронировании "на сегодня"
	AdvanceBookingDays      int  // 0 = unlimited
	RequiresConfirmation    bool // Новые бронирования создаются как pending
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *SchedulingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// DefaultSchedulingSettings возвращает настройки по умолчанию для организаций
// без сохраненной конфигурации
func DefaultSchedulingSettings(organizationID int64) *SchedulingSettings {
	return &SchedulingSettings{
		OrganizationID:          organizationID,
		BufferMinutes:           DefaultBufferMinutes,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		RequiresConfirmation:    DefaultRequiresConfirmation,
	}
}
