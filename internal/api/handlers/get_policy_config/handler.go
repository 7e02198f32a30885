package get_policy_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/storekit/STF-ReservationService/internal/api/handlers"
	configService "github.com/storekit/STF-ReservationService/internal/service/config"
	"github.com/storekit/STF-ReservationService/internal/service/config/models"
)

const (
	msgInvalidStoreID = "некорректный ID магазина"
	msgInvalidInput   = "некорректные параметры запроса"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeID, err := strconv.ParseInt(vars["storeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/policy - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStoreID)
		return
	}

	result, err := h.service.Get(r.Context(), &models.GetPolicyRequest{StoreID: storeID})
	if err != nil {
		switch {
		case errors.Is(err, configService.ErrInvalidInput):
			h.logger.Warn("GET /stores/{id}/policy - Invalid input: store_id=%d", storeID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /stores/{id}/policy - Failed: store_id=%d, error=%v", storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stores/{id}/policy - Policy retrieved: store_id=%d, is_default=%t",
		storeID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
