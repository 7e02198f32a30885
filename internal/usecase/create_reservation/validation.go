package create_reservation

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

	if !req.StartTime.IsValid() {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}

	if req.FacilityID != nil && req.StaffID != nil {
		return fmt.Errorf("%w: facilityID and staffID are mutually exclusive", ErrInvalidInput)
	}

	// Анонимное бронирование обязано нести контакт
	if req.UserID == 0 && (req.ContactName == nil || req.ContactPhone == nil) {
		return fmt.Errorf("%w: anonymous reservation requires contact name and phone", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
