package get_available_facilities

import (
	"time"

	"github.com/storekit/STF-ReservationService/pkg/types"
)

// Request модель запроса на получение доступных мест
type Request struct {
	UserID    int64            // ID пользователя (для логирования)
	StoreID   int64            // ID магазина
	Date      time.Time        // Локальная календарная дата
	StartTime types.TimeString // Локальное время начала слота
}

// Response модель ответа со списком доступных мест
type Response struct {
	StoreID    int64
	StartUTC   time.Time
	Facilities []AvailableFacility
}

// AvailableFacility место, доступное для бронирования в запрошенный момент
type AvailableFacility struct {
	ID              int64
	Name            string
	DurationMinutes int
}
