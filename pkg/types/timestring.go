package types

import (
	"fmt"
	"time"
)

// TimeString represents a wall-clock time of day in "HH:MM" format.
// The special value "24:00" is allowed and means end-of-day; it can be
// produced by arithmetic and used as an exclusive range boundary, but
// never as a slot start time.
type TimeString string

// EndOfDay граница конца дня, используется как эксклюзивный конец диапазона
const EndOfDay TimeString = "24:00"

const minutesPerDay = 24 * 60

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString парсит строку "HH:MM" и валидирует её
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if _, err := ts.Minutes(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала дня
func NewTimeStringFromMinutes(m int) (TimeString, error) {
	if m < 0 || m > minutesPerDay {
		return "", fmt.Errorf("time out of range: %d minutes", m)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60)), nil
}

// Minutes возвращает количество минут с начала дня (0..1440)
func (t TimeString) Minutes() (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(string(t), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time format %q: expected HH:MM", string(t))
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", string(t))
	}
	if h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid hours in %q", string(t))
	}
	return h*60 + m, nil
}

// Hour возвращает час (0..24); для некорректного значения возвращает 0
func (t TimeString) Hour() int {
	m, err := t.Minutes()
	if err != nil {
		return 0
	}
	return m / 60
}

// AddMinutes возвращает время, сдвинутое на delta минут вперед.
// Результат не может выходить за границу дня (максимум "24:00").
func (t TimeString) AddMinutes(delta int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(m + delta)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, err1 := t.Minutes()
	b, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err1 := t.Minutes()
	b, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a > b
}

// IsValid проверяет корректность формата времени
func (t TimeString) IsValid() bool {
	_, err := t.Minutes()
	return err == nil
}

func (t TimeString) String() string {
	return string(t)
}
