package get_available_slots

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов.
// Длительность задается либо типом бронирования (BookingTypeID), либо
// напрямую в минутах (DurationMinutes) - ровно одним из двух способов.
type Request struct {
	OrganizationID  int64     // ID организации
	BookingTypeID   *int64    // ID услуги (опционально)
	DurationMinutes *int      // Длительность в минутах (опционально)
	Date            time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	Date            time.Time     // Дата, на которую запрашивались слоты
	OrganizationID  int64         // ID организации
	DurationMinutes int           // Фактическая длительность слота
	Slots           []domain.Slot // Слоты дня с пометкой доступности
}
