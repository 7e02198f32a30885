package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/storekit/STF-ReservationService/internal/api/handlers"
	"github.com/storekit/STF-ReservationService/internal/domain"
	getAvailableSlots "github.com/storekit/STF-ReservationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStoreID    = "некорректный ID магазина"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDays       = "некорректное количество дней"
	msgInvalidFacilityID = "некорректный ID места"
	msgInvalidStaffID    = "некорректный ID сотрудника"
	msgStoreNotFound     = "магазин не найден"
	msgFacilityNotFound  = "место не найдено"
	msgStaffNotFound     = "сотрудник не найден"
	msgInvalidInput      = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/available-slots
// Query параметры: date (обязательный), days, facilityId, staffId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	storeID, err := strconv.ParseInt(vars["storeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/available-slots - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStoreID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /stores/{id}/available-slots - Invalid date %q: %v", query.Get("date"), err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	days := 1
	if raw := query.Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			h.logger.Warn("GET /stores/{id}/available-slots - Invalid days %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	var facilityID *int64
	if raw := query.Get("facilityId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFacilityID)
			return
		}
		facilityID = &id
	}

	var staffID *int64
	if raw := query.Get("staffId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		staffID = &id
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		StoreID:    storeID,
		FacilityID: facilityID,
		StaffID:    staffID,
		Date:       date,
		Days:       days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStoreNotFound):
			h.logger.Warn("GET /stores/{id}/available-slots - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, getAvailableSlots.ErrFacilityNotFound):
			h.logger.Warn("GET /stores/{id}/available-slots - Facility not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /stores/{id}/available-slots - Staff not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /stores/{id}/available-slots - Invalid input: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /stores/{id}/available-slots - Failed to get slots: store_id=%d, error=%v", storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stores/{id}/available-slots - Slots retrieved: store_id=%d, days=%d", storeID, days)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
