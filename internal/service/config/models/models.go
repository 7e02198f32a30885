package models

import (
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
)

// Request модели

// GetPolicyRequest запрос на получение политики бронирования магазина
type GetPolicyRequest struct {
	StoreID int64 `json:"storeId"`
}

// UpdatePolicyRequest запрос на обновление политики бронирования
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	UserID                 int64   `json:"userId"`
	UseBusinessHours       *bool   `json:"useBusinessHours,omitempty"`
	RsvpHours              *string `json:"rsvpHours,omitempty"` // JSON-документ расписания
	CanCancel              *bool   `json:"canCancel,omitempty"`
	CancelHours            *int    `json:"cancelHours,omitempty"`
	CanReserveBefore       *int    `json:"canReserveBefore,omitempty"`
	CanReserveAfter        *int    `json:"canReserveAfter,omitempty"`
	DefaultDurationMinutes *int    `json:"defaultDurationMinutes,omitempty"`
	SingleServiceMode      *bool   `json:"singleServiceMode,omitempty"`
}

// ApplyToPolicy применяет частичное обновление к политике
func (r *UpdatePolicyRequest) ApplyToPolicy(p *domain.PolicyConfig) {
	if r.UseBusinessHours != nil {
		p.UseBusinessHours = *r.UseBusinessHours
	}
	if r.RsvpHours != nil {
		p.RsvpHoursJSON = r.RsvpHours
	}
	if r.CanCancel != nil {
		p.CanCancel = *r.CanCancel
	}
	if r.CancelHours != nil {
		p.CancelHours = *r.CancelHours
	}
	if r.CanReserveBefore != nil {
		p.CanReserveBefore = *r.CanReserveBefore
	}
	if r.CanReserveAfter != nil {
		p.CanReserveAfter = *r.CanReserveAfter
	}
	if r.DefaultDurationMinutes != nil {
		p.DefaultDurationMinutes = *r.DefaultDurationMinutes
	}
	if r.SingleServiceMode != nil {
		p.SingleServiceMode = *r.SingleServiceMode
	}
}

// Response модели

// PolicyResponse ответ с данными политики бронирования
type PolicyResponse struct {
	StoreID                int64     `json:"storeId"`
	UseBusinessHours       bool      `json:"useBusinessHours"`
	RsvpHours              *string   `json:"rsvpHours,omitempty"`
	CanCancel              bool      `json:"canCancel"`
	CancelHours            int       `json:"cancelHours"`
	CanReserveBefore       int       `json:"canReserveBefore"`
	CanReserveAfter        int       `json:"canReserveAfter"`
	DefaultDurationMinutes int       `json:"defaultDurationMinutes"`
	SingleServiceMode      bool      `json:"singleServiceMode"`
	IsDefault              bool      `json:"isDefault"` // true, если политика не сохранена и вернулся дефолт
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.PolicyConfig, isDefault bool) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		StoreID:                p.StoreID,
		UseBusinessHours:       p.UseBusinessHours,
		RsvpHours:              p.RsvpHoursJSON,
		CanCancel:              p.CanCancel,
		CancelHours:            p.CancelHours,
		CanReserveBefore:       p.CanReserveBefore,
		CanReserveAfter:        p.CanReserveAfter,
		DefaultDurationMinutes: p.DefaultDurationMinutes,
		SingleServiceMode:      p.SingleServiceMode,
		IsDefault:              isDefault,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
