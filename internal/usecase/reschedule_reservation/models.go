package reschedule_reservation

import (
	"time"

	"github.com/storekit/STF-ReservationService/pkg/types"
)

// Статусы результата попытки переноса
const (
	// StatusCommitted перенос зафиксирован в хранилище
	StatusCommitted = "committed"
	// StatusAwaitingConfirmation новое время внутри окна блокировки,
	// нужно явное подтверждение пользователя (повторный запрос с Confirmed=true)
	StatusAwaitingConfirmation = "awaiting_confirmation"
	// StatusDeclined пользователь отказался от переноса
	StatusDeclined = "declined"
)

// Request модель запроса на перенос бронирования
type Request struct {
	ReservationID int64            // ID бронирования
	UserID        int64            // Кто переносит
	Date          time.Time        // Новая локальная дата
	StartTime     types.TimeString // Новое локальное время начала

	// Confirmed = true повторяет попытку, для которой ранее был возвращен
	// StatusAwaitingConfirmation, с согласием пользователя
	Confirmed bool
	// Decline = true отменяет ожидающую подтверждения попытку
	Decline bool
}

// Response модель ответа с результатом попытки переноса
type Response struct {
	Status          string    // committed | awaiting_confirmation | declined
	ReservationID   int64     // ID бронирования
	OldStartUTC     time.Time // Прежнее время начала
	NewStartUTC     time.Time // Запрошенное время начала
	DurationMinutes int       // Длительность бронирования
	// Warning человеко-читаемое пояснение для awaiting_confirmation
	Warning string
}
