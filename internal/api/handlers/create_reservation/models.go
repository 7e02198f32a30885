package create_reservation

import (
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	createReservation "github.com/storekit/STF-ReservationService/internal/usecase/create_reservation"
	"github.com/storekit/STF-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	StoreID      int64   `json:"storeId"`
	FacilityID   *int64  `json:"facilityId,omitempty"`
	StaffID      *int64  `json:"staffId,omitempty"`
	Date         string  `json:"date"`      // "2025-10-15", локальная дата магазина
	StartTime    string  `json:"startTime"` // "10:00", локальное время магазина
	ContactName  *string `json:"contactName,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64   `json:"id"`
	StoreID         int64   `json:"storeId"`
	UserID          int64   `json:"userId"`
	StartUTC        string  `json:"startUtc"` // ISO 8601, UTC
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	FacilityID      *int64  `json:"facilityId,omitempty"`
	StaffID         *int64  `json:"staffId,omitempty"`
	FacilityName    *string `json:"facilityName,omitempty"`
	StaffName       *string `json:"staffName,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:       userID,
		StoreID:      r.StoreID,
		FacilityID:   r.FacilityID,
		StaffID:      r.StaffID,
		Date:         date,
		StartTime:    startTime,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		Notes:        r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		StoreID:         resp.StoreID,
		UserID:          resp.UserID,
		StartUTC:        resp.StartUTC.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		FacilityID:      resp.FacilityID,
		StaffID:         resp.StaffID,
		FacilityName:    resp.FacilityName,
		StaffName:       resp.StaffName,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
