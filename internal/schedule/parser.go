// Package schedule парсинг и запросы к недельному расписанию работы магазина.
//
// Формат документа:
//
//	{
//	  "timeZone": "Asia/Taipei",
//	  "monday":   [{"from": "09:00", "to": "18:00"}],
//	  "tuesday":  "closed",
//	  "saturday": [{"from": "09:00", "to": "12:00"}, {"from": "13:00", "to": "24:00"}],
//	  "holidays": ["2026-01-01"]
//	}
//
// День, отсутствующий в документе, считается закрытым. Диапазоны
// полуоткрытые [from, to), to может быть "24:00". Диапазоны через
// полночь (from > to) не поддерживаются: документ обязан разбивать их
// на два диапазона по границе дня - это дает одно согласованное
// правило и для генерации слотов, и для проверки конфликтов.
package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/pkg/tzoffset"
	"github.com/storekit/STF-ReservationService/pkg/types"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

type rawDocument struct {
	TimeZone  string          `json:"timeZone"`
	Monday    json.RawMessage `json:"monday"`
	Tuesday   json.RawMessage `json:"tuesday"`
	Wednesday json.RawMessage `json:"wednesday"`
	Thursday  json.RawMessage `json:"thursday"`
	Friday    json.RawMessage `json:"friday"`
	Saturday  json.RawMessage `json:"saturday"`
	Sunday    json.RawMessage `json:"sunday"`
	Holidays  []string        `json:"holidays"`
}

type rawRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Parse разбирает JSON-документ расписания в доменную структуру
func Parse(data []byte) (*domain.WeeklySchedule, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	days := map[time.Weekday]json.RawMessage{
		time.Monday:    raw.Monday,
		time.Tuesday:   raw.Tuesday,
		time.Wednesday: raw.Wednesday,
		time.Thursday:  raw.Thursday,
		time.Friday:    raw.Friday,
		time.Saturday:  raw.Saturday,
		time.Sunday:    raw.Sunday,
	}

	result := &domain.WeeklySchedule{
		Days:     make(map[time.Weekday]domain.DayHours, len(days)),
		Holidays: make(map[string]struct{}, len(raw.Holidays)),
		TimeZone: raw.TimeZone,
	}

	for weekday, rawDay := range days {
		day, err := parseDay(rawDay)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, weekdayName(weekday), err)
		}
		result.Days[weekday] = day
	}

	for _, h := range raw.Holidays {
		if _, err := time.Parse(domain.DateFormat, h); err != nil {
			return nil, fmt.Errorf("%w: holiday %q: expected %s", ErrInvalidFormat, h, domain.DateFormat)
		}
		result.Holidays[h] = struct{}{}
	}

	return result, nil
}

// parseDay разбирает значение одного дня: отсутствие, "closed" или список диапазонов
func parseDay(raw json.RawMessage) (domain.DayHours, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.DayHours{Closed: true}, nil
	}

	var sentinel string
	if err := json.Unmarshal(raw, &sentinel); err == nil {
		if sentinel == "closed" {
			return domain.DayHours{Closed: true}, nil
		}
		return domain.DayHours{}, fmt.Errorf("unexpected value %q", sentinel)
	}

	var rawRanges []rawRange
	if err := json.Unmarshal(raw, &rawRanges); err != nil {
		return domain.DayHours{}, fmt.Errorf("expected \"closed\" or a list of ranges")
	}

	if len(rawRanges) == 0 {
		return domain.DayHours{Closed: true}, nil
	}

	ranges := make([]domain.TimeRange, 0, len(rawRanges))
	for _, rr := range rawRanges {
		from, err := types.NewTimeStringFromString(rr.From)
		if err != nil {
			return domain.DayHours{}, err
		}
		to, err := types.NewTimeStringFromString(rr.To)
		if err != nil {
			return domain.DayHours{}, err
		}
		if from == types.EndOfDay {
			return domain.DayHours{}, fmt.Errorf("range cannot start at %s", types.EndOfDay)
		}
		// Сюда же попадают диапазоны через полночь (from > to)
		if !from.IsBefore(to) {
			return domain.DayHours{}, fmt.Errorf("range %s-%s: from must be before to", from, to)
		}
		ranges = append(ranges, domain.TimeRange{From: from, To: to})
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].From.IsBefore(ranges[j].From)
	})

	// Пересечение соседних диапазонов - ошибка документа; касание границ допустимо
	for i := 1; i < len(ranges); i++ {
		if ranges[i].From.IsBefore(ranges[i-1].To) {
			return domain.DayHours{}, fmt.Errorf("ranges %s-%s and %s-%s overlap",
				ranges[i-1].From, ranges[i-1].To, ranges[i].From, ranges[i].To)
		}
	}

	return domain.DayHours{Ranges: ranges}, nil
}

// ParseOrDefault разбирает документ, а при ошибке или полностью пустом
// расписании возвращает fallback-расписание 08:00-22:00.
// Деградация логируется, но не считается ошибкой для вызывающей стороны.
func ParseOrDefault(data []byte, log Logger) *domain.WeeklySchedule {
	parsed, err := Parse(data)
	if err != nil {
		if log != nil {
			log.Warn("schedule: falling back to default hours: %v", err)
		}
		return Default()
	}
	if isEmpty(parsed) {
		if log != nil {
			log.Warn("schedule: document has no open ranges, falling back to default hours")
		}
		return Default()
	}
	return parsed
}

// Default возвращает fallback-расписание: каждый день 08:00-22:00
func Default() *domain.WeeklySchedule {
	open := domain.TimeRange{
		From: types.TimeString(fmt.Sprintf("%02d:00", domain.FallbackOpenHour)),
		To:   types.TimeString(fmt.Sprintf("%02d:00", domain.FallbackCloseHour)),
	}

	days := make(map[time.Weekday]domain.DayHours, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		days[wd] = domain.DayHours{Ranges: []domain.TimeRange{open}}
	}

	return &domain.WeeklySchedule{
		Days:     days,
		Holidays: map[string]struct{}{},
	}
}

func isEmpty(s *domain.WeeklySchedule) bool {
	for _, day := range s.Days {
		if !day.Closed && len(day.Ranges) > 0 {
			return false
		}
	}
	return true
}

// IsOpenAt проверяет, что UTC-момент попадает в часы работы магазина.
// Момент ровно на границе to диапазона открытым не считается.
func IsOpenAt(s *domain.WeeklySchedule, instantUTC time.Time, offsetHours int) bool {
	local := tzoffset.ToLocal(instantUTC, offsetHours)

	if s.IsHoliday(local) {
		return false
	}

	day := s.HoursFor(local.Weekday())
	if day.Closed {
		return false
	}

	t := types.NewTimeString(local)
	for _, r := range day.Ranges {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// DistinctOpenHours возвращает упорядоченный список открытых часов дня.
// Правило включения последнего часа асимметричное и сохранено из
// исходного продукта: если to попадает ровно на начало часа, этот час
// не включается (это первый закрытый час); если у to ненулевые минуты,
// час, содержащий to, включается.
//
// Примеры: 13:00-13:30 -> {13}; 13:00-14:00 -> {13}; 13:00-14:30 -> {13, 14}.
func DistinctOpenHours(s *domain.WeeklySchedule, weekday time.Weekday) []int {
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

		lastHour := toMin / 60
		if toMin%60 == 0 {
			lastHour--
		}

		for h := fromMin / 60; h <= lastHour; h++ {
			seen[h] = struct{}{}
		}
	}

	hours := make([]int, 0, len(seen))
	for h := range seen {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

func weekdayName(wd time.Weekday) string {
	return map[time.Weekday]string{
		time.Monday:    "monday",
		time.Tuesday:   "tuesday",
		time.Wednesday: "wednesday",
		time.Thursday:  "thursday",
		time.Friday:    "friday",
		time.Saturday:  "saturday",
		time.Sunday:    "sunday",
	}[wd]
}
