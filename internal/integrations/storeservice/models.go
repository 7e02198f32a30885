package storeservice

import "encoding/json"

// Store модель магазина из StoreService
type Store struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Timezone   string          `json:"timezone"` // Идентификатор таймзоны, например "Asia/Taipei"
	ManagerIDs []int64         `json:"manager_ids"`
	// Документ общих часов работы магазина (формат пакета schedule)
	BusinessHours json.RawMessage `json:"business_hours"`
}

// IsManager проверяет, является ли пользователь менеджером магазина
func (s *Store) IsManager(userID int64) bool {
	for _, id := range s.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Facility место обслуживания магазина (стол, комната, корт и т.п.)
type Facility struct {
	ID              int64           `json:"id"`
	StoreID         int64           `json:"store_id"`
	Name            string          `json:"name"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"` // nil = дефолтная длительность магазина
	Hours           json.RawMessage `json:"hours,omitempty"`            // nil = расписание магазина
}

// Staff сотрудник магазина, принимающий бронирования
type Staff struct {
	ID      int64           `json:"id"`
	StoreID int64           `json:"store_id"`
	Name    string          `json:"name"`
	Hours   json.RawMessage `json:"hours,omitempty"` // nil = расписание магазина
}

// ErrorResponse модель ошибки от StoreService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
