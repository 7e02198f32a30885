package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/pkg/dbmetrics"
	"github.com/storekit/STF-ReservationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с политикой бронирования магазина
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByStoreID получает политику бронирования магазина
func (r *Repository) GetByStoreID(ctx context.Context, storeID int64) (*domain.PolicyConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"store_id",
		"use_business_hours",
		"rsvp_hours",
		"can_cancel",
		"cancel_hours",
		"can_reserve_before",
		"can_reserve_after",
		"default_duration_minutes",
		"single_service_mode",
		"created_at",
		"updated_at",
	).
		From("store_policy_config").
		Where(squirrel.Eq{"store_id": storeID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStoreID - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.PolicyConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.StoreID,
		&cfg.UseBusinessHours,
		&cfg.RsvpHoursJSON,
		&cfg.CanCancel,
		&cfg.CancelHours,
		&cfg.CanReserveBefore,
		&cfg.CanReserveAfter,
		&cfg.DefaultDurationMinutes,
		&cfg.SingleServiceMode,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStoreID - scan policy: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает или обновляет политику бронирования магазина
func (r *Repository) Upsert(ctx context.Context, cfg *domain.PolicyConfig) (*domain.PolicyConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("store_policy_config").
		Columns(
			"store_id",
			"use_business_hours",
			"rsvp_hours",
			"can_cancel",
			"cancel_hours",
			"can_reserve_before",
			"can_reserve_after",
			"default_duration_minutes",
			"single_service_mode",
		).
		Values(
			cfg.StoreID,
			cfg.UseBusinessHours,
			cfg.RsvpHoursJSON,
			cfg.CanCancel,
			cfg.CancelHours,
			cfg.CanReserveBefore,
			cfg.CanReserveAfter,
			cfg.DefaultDurationMinutes,
			cfg.SingleServiceMode,
		).
		Suffix(`ON CONFLICT (store_id) DO UPDATE SET
			use_business_hours = EXCLUDED.use_business_hours,
			rsvp_hours = EXCLUDED.rsvp_hours,
			can_cancel = EXCLUDED.can_cancel,
			cancel_hours = EXCLUDED.cancel_hours,
			can_reserve_before = EXCLUDED.can_reserve_before,
			can_reserve_after = EXCLUDED.can_reserve_after,
			default_duration_minutes = EXCLUDED.default_duration_minutes,
			single_service_mode = EXCLUDED.single_service_mode,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}
