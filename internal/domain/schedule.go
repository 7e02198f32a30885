package domain

import (
	"time"

	"github.com/storekit/STF-ReservationService/pkg/types"
)

// TimeRange represents one open interval of a day in store-local time.
// Интервал полуоткрытый: [From, To). To может быть "24:00" (конец дня).
type TimeRange struct {
	From types.TimeString
	To   types.TimeString
}

// Contains returns true if the local time t falls inside the range.
// Время, равное To, в диапазон не входит.
func (r TimeRange) Contains(t types.TimeString) bool {
	return !t.IsBefore(r.From) && t.IsBefore(r.To)
}

// DayHours represents the open hours of a single weekday:
// either the Closed sentinel, or an ordered list of open ranges.
type DayHours struct {
	Closed bool
	Ranges []TimeRange
}

// WeeklySchedule is the parsed, immutable form of the store's
// business-hours document. Holidays are fully closed ISO dates.
type WeeklySchedule struct {
	Days     map[time.Weekday]DayHours
	Holidays map[string]struct{} // ключи в формате DateFormat
	TimeZone string              // объявленная в документе таймзона, может быть пустой
}

// HoursFor returns the open hours for the given weekday.
// День, отсутствующий в документе, считается закрытым.
func (s *WeeklySchedule) HoursFor(weekday time.Weekday) DayHours {
	if s == nil || s.Days == nil {
		return DayHours{Closed: true}
	}
	day, ok := s.Days[weekday]
	if !ok {
		return DayHours{Closed: true}
	}
	return day
}

// IsHoliday returns true if the local calendar date is a configured holiday
func (s *WeeklySchedule) IsHoliday(localDay time.Time) bool {
	if s == nil || len(s.Holidays) == 0 {
		return false
	}
	_, ok := s.Holidays[localDay.Format(DateFormat)]
	return ok
}
