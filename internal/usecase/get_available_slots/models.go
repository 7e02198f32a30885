package get_available_slots

import (
	"time"

	"github.com/storekit/STF-ReservationService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	StoreID    int64     // ID магазина
	FacilityID *int64    // Слоты конкретного места (опционально)
	StaffID    *int64    // Слоты конкретного сотрудника (опционально)
	Date       time.Time // Локальная календарная дата первого дня
	Days       int       // Количество дней сетки (1..7), 0 = 1 день
}

// Response модель ответа с сеткой доступных слотов
type Response struct {
	StoreID    int64
	FacilityID *int64
	StaffID    *int64
	Timezone   string     // Таймзона, в которой указаны локальные времена слотов
	Days       []DaySlots // По одному элементу на запрошенный день
}

// DaySlots слоты одного календарного дня
type DaySlots struct {
	Date  time.Time // Локальная календарная дата
	Slots []Slot
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Локальное время начала слота, например "10:00"
	StartUTC        time.Time        // Момент начала в UTC
	DurationMinutes int              // Длительность слота в минутах
	Available       bool             // Свободен ли слот для бронирования
}
