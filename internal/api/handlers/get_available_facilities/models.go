package get_available_facilities

import (
	"time"

	getAvailableFacilities "github.com/storekit/STF-ReservationService/internal/usecase/get_available_facilities"
)

// FacilityResponse HTTP модель доступного места
type FacilityResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
}

// AvailableFacilitiesResponse HTTP response model
type AvailableFacilitiesResponse struct {
	StoreID    int64              `json:"storeId"`
	StartUTC   string             `json:"startUtc"` // ISO 8601, UTC
	Facilities []FacilityResponse `json:"facilities"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableFacilities.Response) *AvailableFacilitiesResponse {
	facilities := make([]FacilityResponse, len(resp.Facilities))
	for i, f := range resp.Facilities {
		facilities[i] = FacilityResponse{
			ID:              f.ID,
			Name:            f.Name,
			DurationMinutes: f.DurationMinutes,
		}
	}

	return &AvailableFacilitiesResponse{
		StoreID:    resp.StoreID,
		StartUTC:   resp.StartUTC.Format(time.RFC3339),
		Facilities: facilities,
	}
}
