package domain

import "time"

// PolicyConfig represents the per-store reservation policy.
// UseBusinessHours выбирает расписание: true - общие часы работы
// магазина, false - отдельные RSVP-часы из RsvpHoursJSON.
type PolicyConfig struct {
	ID      int64
	StoreID int64

	UseBusinessHours bool
	RsvpHoursJSON    *string // JSON-документ RSVP-расписания, NULL = не задан

	CanCancel   bool
	CancelHours int // Окно блокировки перед началом бронирования, часы

	CanReserveBefore int // Минимальный заблаговременный интервал, часы
	CanReserveAfter  int // Максимальный горизонт бронирования, часы; 0 = без ограничения

	DefaultDurationMinutes int
	SingleServiceMode      bool // Одно активное бронирование на слот на весь магазин

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasReservationHorizon returns true if there is a limit on how far in
// advance reservations can be made
func (p *PolicyConfig) HasReservationHorizon() bool {
	return p.CanReserveAfter > 0
}

// DefaultPolicyConfig возвращает конфигурацию по умолчанию для магазина
// без сохраненной политики
func DefaultPolicyConfig(storeID int64) *PolicyConfig {
	return &PolicyConfig{
		StoreID:                storeID,
		UseBusinessHours:       true,
		CanCancel:              true,
		CancelHours:            DefaultCancelHours,
		CanReserveBefore:       DefaultCanReserveBeforeHours,
		CanReserveAfter:        DefaultCanReserveAfterHours,
		DefaultDurationMinutes: DefaultDurationMinutes,
		SingleServiceMode:      false,
	}
}
