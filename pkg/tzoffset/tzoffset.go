// Package tzoffset конвертация между UTC и локальным временем магазина
// по фиксированному смещению. Все времена хранятся в UTC; смещения
// статичны для каждого идентификатора таймзоны, переходы на летнее
// время не моделируются.
package tzoffset

import (
	"errors"
	"time"

	"github.com/storekit/STF-ReservationService/pkg/types"
)

// ErrUnknownTimezone возвращается для идентификатора, которого нет в таблице смещений
var ErrUnknownTimezone = errors.New("tzoffset: unknown timezone identifier")

// DefaultOffsetHours смещение по умолчанию для неизвестных таймзон (Asia/Taipei, UTC+8).
// Fallback на него - осознанное решение: ошибка конфигурации магазина
// не должна блокировать расчет слотов. Каждое срабатывание логируется вызывающей стороной.
const DefaultOffsetHours = 8

// Фиксированные смещения в часах относительно UTC.
// Дробные смещения (Asia/Kolkata и т.п.) не поддерживаются.
var offsets = map[string]int{
	"UTC":                 0,
	"Europe/London":       0,
	"Europe/Paris":        1,
	"Europe/Berlin":       1,
	"Europe/Kyiv":         2,
	"Europe/Moscow":       3,
	"Asia/Dubai":          4,
	"Asia/Bangkok":        7,
	"Asia/Jakarta":        7,
	"Asia/Shanghai":       8,
	"Asia/Taipei":         8,
	"Asia/Hong_Kong":      8,
	"Asia/Singapore":      8,
	"Asia/Tokyo":          9,
	"Asia/Seoul":          9,
	"Australia/Sydney":    10,
	"Pacific/Auckland":    12,
	"America/Sao_Paulo":   -3,
	"America/New_York":    -5,
	"America/Chicago":     -6,
	"America/Denver":      -7,
	"America/Los_Angeles": -8,
}

// OffsetHours возвращает фиксированное смещение для идентификатора таймзоны
func OffsetHours(timezoneID string) (int, error) {
	offset, ok := offsets[timezoneID]
	if !ok {
		return 0, ErrUnknownTimezone
	}
	return offset, nil
}

// OffsetHoursOrDefault возвращает смещение для идентификатора,
// либо DefaultOffsetHours, если идентификатор неизвестен.
// Второе возвращаемое значение false означает, что сработал fallback.
func OffsetHoursOrDefault(timezoneID string) (int, bool) {
	offset, err := OffsetHours(timezoneID)
	if err != nil {
		return DefaultOffsetHours, false
	}
	return offset, true
}

// ToLocal переводит UTC-момент в локальное настенное время магазина.
// Результат остается в time.UTC: это представление "настенных часов",
// а не момент в другой таймзоне.
func ToLocal(instantUTC time.Time, offsetHours int) time.Time {
	return instantUTC.UTC().Add(time.Duration(offsetHours) * time.Hour)
}

// ToUTC обратная операция к ToLocal: ToUTC(ToLocal(x, o), o) == x
func ToUTC(local time.Time, offsetHours int) time.Time {
	return local.Add(-time.Duration(offsetHours) * time.Hour)
}

// CombineDayAndSlot собирает UTC-момент из локальной календарной даты
// и времени начала слота "HH:MM"
func CombineDayAndSlot(day time.Time, slot types.TimeString, offsetHours int) (time.Time, error) {
	minutes, err := slot.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(minutes) * time.Minute)
	return ToUTC(local, offsetHours), nil
}
