package get_available_slots

import (
	"time"

	"github.com/evtikhov/BMA-SchedulingService/internal/domain"
	"github.com/evtikhov/BMA-SchedulingService/pkg/types"
)

// generateCandidateSlots генерирует кандидатов начала слота на день.
// Сетка фиксированная (domain.SlotStepMinutes), шаг не зависит от
// длительности услуги. Кандидат допустим, пока start + duration не
// выходит за время закрытия. Результат отсортирован по возрастанию.
func generateCandidateSlots(openTime, closeTime types.TimeString, durationMinutes int) ([]types.TimeString, error) {
	open, err := openTime.Minutes()
	if err != nil {
		return nil, err
	}
	close, err := closeTime.Minutes()
	if err != nil {
		return nil, err
	}

	candidates := make([]types.TimeString, 0)
	for t := open; t+durationMinutes <= close; t += domain.SlotStepMinutes {
		slot, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, slot)
	}

	return candidates, nil
}

// filterElapsedSlots убирает слоты, недоступные по времени при бронировании
// "на сегодня": слот с началом не позже текущего времени (плюс минимальный
// запас minNoticeMinutes) не возвращается вовсе.
// Для дат, отличных от сегодняшней, фильтр не применяется.
func filterElapsedSlots(
	candidates []types.TimeString,
	requestDate time.Time,
	now time.Time,
	minNoticeMinutes int,
) []types.TimeString {
	if !isSameDay(requestDate, now) {
		return candidates
	}

	cutoff := now.Hour()*60 + now.Minute() + minNoticeMinutes

	filtered := make([]types.TimeString, 0, len(candidates))
	for _, slot := range candidates {
		minutes, err := slot.Minutes()
		if err != nil {
			continue
		}
		if minutes > cutoff {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// markAvailability помечает каждый слот доступным/недоступным по пересечению
// с существующими активными бронированиями.
//
// Для слота [t, t+d) строится буферизованный интервал
// [t-buffer, t+d+buffer) и проверяется стандартное пересечение полуоткрытых
// интервалов: bufferedStart < bookingEnd && bufferedEnd > bookingStart.
// Граничное касание пересечением не считается: бронирование 10:00-11:00 с
// буфером 15 делает слот 11:14 недоступным, а 11:15 - доступным.
func markAvailability(
	candidates []types.TimeString,
	durationMinutes int,
	bufferMinutes int,
	bookings []*domain.Booking,
) []domain.Slot {
	slots := make([]domain.Slot, len(candidates))

	for i, start := range candidates {
		slots[i] = domain.Slot{
			StartTime:       start,
			DurationMinutes: durationMinutes,
			Available:       !hasConflict(start, durationMinutes, bufferMinutes, bookings),
		}
	}

	return slots
}

// hasConflict проверяет пересечение буферизованного слота хотя бы с одним
// активным бронированием. Арифметика в минутах от полуночи: буферизованные
// границы могут выходить за пределы суток, это корректно для сравнения.
func hasConflict(slotStart types.TimeString, durationMinutes, bufferMinutes int, bookings []*domain.Booking) bool {
	start, err := slotStart.Minutes()
	if err != nil {
		return true
	}

	bufferedStart := start - bufferMinutes
	bufferedEnd := start + durationMinutes + bufferMinutes

	for _, booking := range bookings {
		// Отмененные бронирования слот не занимают
		if !booking.IsActive() {
			continue
		}

		bookingStart, err := booking.StartTime.Minutes()
		if err != nil {
			continue
		}
		bookingEnd := bookingStart + booking.DurationMinutes

		if bufferedStart < bookingEnd && bufferedEnd > bookingStart {
			return true
		}
	}

	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
