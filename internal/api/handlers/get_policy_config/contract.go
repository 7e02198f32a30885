package get_policy_config

import (
	"context"

	"github.com/storekit/STF-ReservationService/internal/service/config/models"
)

type ConfigService interface {
	Get(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
