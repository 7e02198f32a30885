package config

import (
	"context"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
)

// PolicyRepository интерфейс репозитория политики бронирования
type PolicyRepository interface {
	GetByStoreID(ctx context.Context, storeID int64) (*domain.PolicyConfig, error)
	Upsert(ctx context.Context, cfg *domain.PolicyConfig) (*domain.PolicyConfig, error)
}

// StoreServiceClient интерфейс клиента для StoreService
type StoreServiceClient interface {
	GetStore(ctx context.Context, storeID int64) (*storeservice.Store, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
