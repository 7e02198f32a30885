package get_available_slots

import (
	"fmt"

	"github.com/storekit/STF-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StoreID <= 0 {
		return fmt.Errorf("%w: storeID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.FacilityID != nil && req.StaffID != nil {
		return fmt.Errorf("%w: facilityID and staffID are mutually exclusive", ErrInvalidInput)
	}

	if req.Days < 0 || req.Days > domain.MaxWeekDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxWeekDays)
	}

	return nil
}
