package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/storekit/STF-ReservationService/internal/domain"
	policyRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/reservation"
	"github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
	"github.com/storekit/STF-ReservationService/internal/scheduling"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	storeClient     StoreServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	storeClient StoreServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policyRepo:      policyRepo,
		storeClient:     storeClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case отмены бронирования.
// Пользователь может отменить только своё бронирование и только вне окна
// блокировки отмены. Менеджер магазина отменяет любое бронирование без
// ограничения по времени.
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("CancelReservation: reservation=%d, user=%d", req.ReservationID, req.UserID)

	// 1. Валидация входных данных
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	// 2. Получаем бронирование
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
			return ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: repository error for reservation id=%d: %v", req.ReservationID, err)
		return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	// 3. Конечные статусы отменить нельзя
	if !res.IsMutable() {
		uc.logger.Warn("CancelReservation: reservation id=%d is immutable, status=%s", res.ID, res.Status)
		return ErrCannotCancel
	}

	// 4. Определяем, менеджер это или владелец
	isManager, err := uc.isStoreManager(ctx, res.StoreID, req.UserID)
	if err != nil {
		return err
	}

	if !isManager && res.UserID != req.UserID {
		uc.logger.Warn("CancelReservation: access denied for user=%d to reservation id=%d", req.UserID, res.ID)
		return ErrAccessDenied
	}

	// 5. Для владельца проверяем окно блокировки отмены, менеджер его обходит
	if !isManager {
		policy, err := uc.policyRepo.GetByStoreID(ctx, res.StoreID)
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("CancelReservation: failed to get policy for store=%d: %v", res.StoreID, err)
			return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		if policy == nil {
			policy = domain.DefaultPolicyConfig(res.StoreID)
		}

		now := uc.timeProvider.Now()
		if scheduling.InCancelLockout(now, res.StartTime, policy.CanCancel, policy.CancelHours) {
			uc.logger.Warn("CancelReservation: reservation id=%d inside cancel lockout (cancelHours=%d)",
				res.ID, policy.CancelHours)
			return ErrCurrentlyLocked
		}
	}

	// 6. Отменяем бронирование
	if err := uc.reservationRepo.Cancel(ctx, req.ReservationID, req.Reason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to cancel reservation id=%d: %v", req.ReservationID, err)
		return fmt.Errorf("%w: failed to cancel: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelReservation: successfully cancelled reservation id=%d", req.ReservationID)
	return nil
}

// isStoreManager проверяет, является ли пользователь менеджером магазина
func (uc *UseCase) isStoreManager(ctx context.Context, storeID, userID int64) (bool, error) {
	store, err := uc.storeClient.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, storeservice.ErrStoreNotFound) {
			// Магазин удалён, но бронирование существует: считаем пользователя
			// обычным владельцем
			return false, nil
		}
		uc.logger.Error("CancelReservation: failed to get store id=%d: %v", storeID, err)
		return false, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}
	return store.IsManager(userID), nil
}
