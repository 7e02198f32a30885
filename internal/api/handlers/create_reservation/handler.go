package create_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/storekit/STF-ReservationService/internal/api/handlers"
	"github.com/storekit/STF-ReservationService/internal/api/middleware"
	createReservation "github.com/storekit/STF-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени"
	msgStoreNotFound      = "магазин не найден"
	msgFacilityNotFound   = "место не найдено"
	msgStaffNotFound      = "сотрудник не найден"
	msgOutsideHours       = "выбранное время вне часов работы"
	msgSlotConflict       = "выбранное время уже занято"
	msgAdvanceWindow      = "выбранное время вне допустимого окна бронирования"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
// Маршрут публичный: анонимные бронирования разрешены, если передан контакт.
// Для аутентифицированных запросов userID берется из X-User-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// userID из контекста (protected route) или из заголовка напрямую,
	// отсутствие обоих означает анонимное бронирование
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		if raw := r.Header.Get(middleware.HeaderUserID); raw != "" {
			userID, _ = strconv.ParseInt(raw, 10, 64)
		}
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrStoreNotFound):
			h.logger.Warn("POST /reservations - Store not found: store_id=%d", req.StoreID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, createReservation.ErrFacilityNotFound):
			h.logger.Warn("POST /reservations - Facility not found: store_id=%d", req.StoreID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, createReservation.ErrStaffNotFound):
			h.logger.Warn("POST /reservations - Staff not found: store_id=%d", req.StoreID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createReservation.ErrOutsideBusinessHours):
			h.logger.Warn("POST /reservations - Outside business hours: store_id=%d, user_id=%d", req.StoreID, userID)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: store_id=%d, user_id=%d", req.StoreID, userID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createReservation.ErrAdvanceWindow):
			h.logger.Warn("POST /reservations - Advance window violation: store_id=%d, user_id=%d", req.StoreID, userID)
			handlers.RespondBadRequest(w, msgAdvanceWindow)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: store_id=%d, error=%v", req.StoreID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: store_id=%d, user_id=%d, error=%v",
				req.StoreID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, store_id=%d, user_id=%d",
		result.ID, req.StoreID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
