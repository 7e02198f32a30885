package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending        ReservationStatus = "pending"
	StatusReadyToConfirm ReservationStatus = "ready_to_confirm"
	StatusReady          ReservationStatus = "ready"
	StatusCheckedIn      ReservationStatus = "checked_in"
	StatusCompleted      ReservationStatus = "completed"
	StatusCancelled      ReservationStatus = "cancelled"
	StatusNoShow         ReservationStatus = "no_show"
)

// Reservation represents a customer reservation in a store
type Reservation struct {
	ID      int64
	StoreID int64
	UserID  int64

	// Контакт для анонимных бронирований (UserID == 0)
	ContactName  *string
	ContactPhone *string

	StartTime       time.Time // Момент начала, всегда в UTC
	DurationMinutes int
	Status          ReservationStatus

	FacilityID *int64
	StaffID    *int64

	// Денормализованное имя услуги/места для истории
	FacilityName *string
	StaffName    *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocks returns true if the reservation occupies its slot.
// Cancelled - единственный статус, который не блокирует слот:
// no-show продолжает занимать время, на которое был записан.
func (r *Reservation) Blocks() bool {
	return r.Status != StatusCancelled
}

// HasValidSchedule returns true if the reservation carries a usable
// start time and duration. Записи с битыми временными данными
// пропускаются при расчете конфликтов, а не роняют весь расчет.
func (r *Reservation) HasValidSchedule() bool {
	return !r.StartTime.IsZero() && r.DurationMinutes > 0
}

// EndTime returns the exclusive end of the reservation interval
func (r *Reservation) EndTime() time.Time {
	return r.StartTime.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// IsMutable returns true if the reservation may still be cancelled or moved.
// Completed никогда не мутабелен, вне зависимости от времени.
func (r *Reservation) IsMutable() bool {
	switch r.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return false
	default:
		return true
	}
}

// IsAnonymous returns true if the reservation belongs to an anonymous contact
func (r *Reservation) IsAnonymous() bool {
	return r.UserID == 0
}

// StoreReservationsFilter фильтр для выборки бронирований магазина
type StoreReservationsFilter struct {
	StoreID         int64              // Обязательный параметр
	FacilityID      *int64             // Фильтр по месту (опционально)
	StaffID         *int64             // Фильтр по сотруднику (опционально)
	StartDate       *time.Time         // Начало периода в UTC (опционально)
	EndDate         *time.Time         // Конец периода в UTC, эксклюзивный (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные бронирования
}
