package get_available_slots

import "errors"

var (
	// ErrStoreNotFound возвращается, когда магазин не найден
	ErrStoreNotFound = errors.New("store not found")

	// ErrFacilityNotFound возвращается, когда место не найдено в магазине
	ErrFacilityNotFound = errors.New("facility not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в магазине
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
