package update_policy_config

import (
	"context"

	"github.com/storekit/STF-ReservationService/internal/service/config/models"
)

type ConfigService interface {
	Update(ctx context.Context, storeID int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
