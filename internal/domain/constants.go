package domain

// Default configuration values
const (
	DefaultDurationMinutes       = 60
	DefaultCancelHours           = 24
	DefaultCanReserveBeforeHours = 1
	DefaultCanReserveAfterHours  = 0 // 0 = без ограничения горизонта
)

// Fallback-расписание при нечитаемом или пустом документе часов работы:
// открыто каждый день с 08:00 до 22:00 (часы 8..21, 14 часовых слотов).
// Осознанная деградация: ошибка конфигурации магазина не должна
// блокировать все бронирования.
const (
	FallbackOpenHour  = 8
	FallbackCloseHour = 22
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480  // 8 часов
	MinCancelHours              = 0
	MaxCancelHours              = 720  // 30 дней
	MaxReserveWindowHours       = 8760 // 1 год
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxWeekDays                 = 7
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, не блокирующие слот.
// NoShow здесь намеренно отсутствует: неявка продолжает занимать
// слот, на который была записана.
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
}

// ActiveStatuses статусы, занимающие слот
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusReadyToConfirm,
	StatusReady,
	StatusCheckedIn,
	StatusCompleted,
	StatusNoShow,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []ReservationStatus{
	StatusPending,
	StatusReadyToConfirm,
	StatusReady,
	StatusCheckedIn,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// IsValidStatus проверяет, что значение является допустимым статусом
func IsValidStatus(s ReservationStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
