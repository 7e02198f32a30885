package get_available_slots

import (
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	getAvailableSlots "github.com/storekit/STF-ReservationService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "10:00", локальное время магазина
	StartUTC        string `json:"startUtc"`  // ISO 8601, UTC
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// DaySlotsResponse слоты одного календарного дня
type DaySlotsResponse struct {
	Date  string         `json:"date"` // "2025-10-15"
	Slots []SlotResponse `json:"slots"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StoreID    int64              `json:"storeId"`
	FacilityID *int64             `json:"facilityId,omitempty"`
	StaffID    *int64             `json:"staffId,omitempty"`
	Timezone   string             `json:"timezone"`
	Days       []DaySlotsResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]DaySlotsResponse, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				StartTime:       slot.StartTime.String(),
				StartUTC:        slot.StartUTC.Format(time.RFC3339),
				DurationMinutes: slot.DurationMinutes,
				Available:       slot.Available,
			}
		}
		days[i] = DaySlotsResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		}
	}

	return &AvailableSlotsResponse{
		StoreID:    resp.StoreID,
		FacilityID: resp.FacilityID,
		StaffID:    resp.StaffID,
		Timezone:   resp.Timezone,
		Days:       days,
	}
}
