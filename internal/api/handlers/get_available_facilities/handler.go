package get_available_facilities

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/storekit/STF-ReservationService/internal/api/handlers"
	"github.com/storekit/STF-ReservationService/internal/domain"
	getAvailableFacilities "github.com/storekit/STF-ReservationService/internal/usecase/get_available_facilities"
	"github.com/storekit/STF-ReservationService/pkg/types"
)

const (
	msgInvalidStoreID = "некорректный ID магазина"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime    = "некорректный формат времени, ожидается HH:MM"
	msgStoreNotFound  = "магазин не найден"
	msgInvalidInput   = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableFacilitiesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableFacilitiesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/available-facilities
// Query параметры: date и time (оба обязательные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	storeID, err := strconv.ParseInt(vars["storeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/available-facilities - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStoreID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /stores/{id}/available-facilities - Invalid date %q: %v", query.Get("date"), err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	startTime, err := types.NewTimeStringFromString(query.Get("time"))
	if err != nil {
		h.logger.Warn("GET /stores/{id}/available-facilities - Invalid time %q: %v", query.Get("time"), err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getAvailableFacilities.Request{
		StoreID:   storeID,
		Date:      date,
		StartTime: startTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableFacilities.ErrStoreNotFound):
			h.logger.Warn("GET /stores/{id}/available-facilities - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, getAvailableFacilities.ErrInvalidInput):
			h.logger.Warn("GET /stores/{id}/available-facilities - Invalid input: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /stores/{id}/available-facilities - Failed: store_id=%d, error=%v", storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stores/{id}/available-facilities - %d facilities available: store_id=%d",
		len(result.Facilities), storeID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
