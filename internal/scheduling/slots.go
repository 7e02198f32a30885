// Package scheduling чистая вычислительная часть движка бронирования:
// генерация слотов, разрешение конфликтов и оконные политики.
// Пакет не читает часы и не ходит в хранилище: все входные данные
// передаются вызывающей стороной и считаются неизменяемыми снапшотами.
package scheduling

import (
	"sort"
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/pkg/types"
)

// GenerateDailySlots возвращает упорядоченный список времен начала слотов
// для указанного дня недели. Для каждого открытого диапазона слоты идут
// от from с фиксированным шагом granularityMinutes; слот должен целиком
// помещаться в диапазон (начало + длительность <= to). Слоты из разных
// диапазонов объединяются, дедуплицируются и сортируются.
//
// Фильтрация прошедших и слишком близких слотов - ответственность
// оконных политик, не генератора.
func GenerateDailySlots(s *domain.WeeklySchedule, weekday time.Weekday, granularityMinutes int) []types.TimeString {
	if granularityMinutes <= 0 {
		return nil
	}

	day := s.HoursFor(weekday)
	if day.Closed {
		return nil
	}

	seen := make(map[int]struct{})
	for _, r := range day.Ranges {
		fromMin, err := r.From.Minutes()
		if err != nil {
			continue
		}
		toMin, err := r.To.Minutes()
		if err != nil {
			continue
		}

		for start := fromMin; start+granularityMinutes <= toMin; start += granularityMinutes {
			seen[start] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return []types.TimeString{}
	}

	minutes := make([]int, 0, len(seen))
	for m := range seen {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	slots := make([]types.TimeString, 0, len(minutes))
	for _, m := range minutes {
		ts, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			continue
		}
		slots = append(slots, ts)
	}
	return slots
}

// DaySlots слоты одного календарного дня недельной сетки
type DaySlots struct {
	Day   time.Time // Локальная календарная дата
	Slots []types.TimeString
}

// GenerateWeekSlots строит сетку слотов на 7 дней, начиная с weekStartLocal.
// Дни-праздники из расписания возвращаются с пустым списком слотов.
func GenerateWeekSlots(s *domain.WeeklySchedule, weekStartLocal time.Time, granularityMinutes int) []DaySlots {
	grid := make([]DaySlots, 0, domain.MaxWeekDays)
	for i := 0; i < domain.MaxWeekDays; i++ {
		day := weekStartLocal.AddDate(0, 0, i)
		var slots []types.TimeString
		if !s.IsHoliday(day) {
			slots = GenerateDailySlots(s, day.Weekday(), granularityMinutes)
		}
		grid = append(grid, DaySlots{Day: day, Slots: slots})
	}
	return grid
}
