package create_reservation

import (
	"time"

	"github.com/storekit/STF-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // 0 = анонимное бронирование по контакту
	StoreID    int64            // ID магазина
	FacilityID *int64           // Бронирование конкретного места (опционально)
	StaffID    *int64           // Бронирование конкретного сотрудника (опционально)
	Date       time.Time        // Локальная календарная дата
	StartTime  types.TimeString // Локальное время начала

	ContactName  *string // Контакт для анонимных бронирований
	ContactPhone *string
	Notes        *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	StoreID         int64
	UserID          int64
	StartUTC        time.Time
	DurationMinutes int
	Status          string
	FacilityID      *int64
	StaffID         *int64
	FacilityName    *string
	StaffName       *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
