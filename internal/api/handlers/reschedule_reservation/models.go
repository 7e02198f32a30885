package reschedule_reservation

import (
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	rescheduleReservation "github.com/storekit/STF-ReservationService/internal/usecase/reschedule_reservation"
	"github.com/storekit/STF-ReservationService/pkg/types"
)

// RescheduleReservationRequest HTTP request model
type RescheduleReservationRequest struct {
	Date      string `json:"date,omitempty"`      // "2025-10-15", локальная дата магазина
	StartTime string `json:"startTime,omitempty"` // "10:00", локальное время магазина

	// Confirmed подтверждает попытку, получившую awaiting_confirmation
	Confirmed bool `json:"confirmed,omitempty"`
	// Decline отклоняет ожидающую подтверждения попытку
	Decline bool `json:"decline,omitempty"`
}

// RescheduleReservationResponse HTTP response model
type RescheduleReservationResponse struct {
	Status          string `json:"status"` // committed | awaiting_confirmation | declined
	ReservationID   int64  `json:"reservationId"`
	OldStartUTC     string `json:"oldStartUtc"`           // ISO 8601, UTC
	NewStartUTC     string `json:"newStartUtc,omitempty"` // ISO 8601, UTC
	DurationMinutes int    `json:"durationMinutes"`
	Warning         string `json:"warning,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleReservationRequest) ToUseCaseRequest(reservationID, userID int64) (*rescheduleReservation.Request, error) {
	req := &rescheduleReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Confirmed:     r.Confirmed,
		Decline:       r.Decline,
	}

	// Отказ не несет нового времени
	if r.Decline {
		return req, nil
	}

	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	req.Date = date

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	req.StartTime = startTime

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleReservation.Response) *RescheduleReservationResponse {
	out := &RescheduleReservationResponse{
		Status:          resp.Status,
		ReservationID:   resp.ReservationID,
		OldStartUTC:     resp.OldStartUTC.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Warning:         resp.Warning,
	}
	if !resp.NewStartUTC.IsZero() {
		out.NewStartUTC = resp.NewStartUTC.Format(time.RFC3339)
	}
	return out
}
