package cancel_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на отмену
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование уже в конечном статусе
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrCurrentlyLocked возвращается, когда действует окно блокировки отмены
	ErrCurrentlyLocked = errors.New("cancellation window has closed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("cancel_reservation: internal error")
)
