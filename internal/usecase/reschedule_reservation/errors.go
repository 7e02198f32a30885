package reschedule_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrStoreNotFound возвращается, когда магазин не найден
	ErrStoreNotFound = errors.New("store not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на перенос
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotReschedule возвращается, когда бронирование в конечном статусе
	ErrCannotReschedule = errors.New("reservation cannot be rescheduled")

	// ErrCurrentlyLocked возвращается, когда текущее время бронирования
	// уже внутри окна блокировки изменений
	ErrCurrentlyLocked = errors.New("reservation is inside the edit lockout window")

	// ErrOutsideBusinessHours возвращается, когда новое время вне рабочих часов
	ErrOutsideBusinessHours = errors.New("requested time is outside business hours")

	// ErrSlotConflict возвращается, когда новое время уже занято
	ErrSlotConflict = errors.New("this time is already booked")

	// ErrRescheduleInProgress возвращается при конкурентной попытке переноса
	// того же бронирования
	ErrRescheduleInProgress = errors.New("another reschedule attempt is in progress")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("reschedule_reservation: internal error")
)
