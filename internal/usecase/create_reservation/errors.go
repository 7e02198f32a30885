package create_reservation

import "errors"

var (
	// ErrStoreNotFound возвращается, когда магазин не найден
	ErrStoreNotFound = errors.New("store not found")

	// ErrFacilityNotFound возвращается, когда место не найдено в магазине
	ErrFacilityNotFound = errors.New("facility not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в магазине
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrOutsideBusinessHours возвращается, когда запрошенное время вне часов работы
	ErrOutsideBusinessHours = errors.New("requested time is outside business hours")

	// ErrSlotConflict возвращается, когда слот уже занят другим бронированием
	ErrSlotConflict = errors.New("this time is already booked")

	// ErrAdvanceWindow возвращается, когда время вне допустимого окна
	// заблаговременного бронирования
	ErrAdvanceWindow = errors.New("requested time is outside the allowed booking window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
