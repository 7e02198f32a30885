package reschedule_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	policyRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/reservation"
	"github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
	"github.com/storekit/STF-ReservationService/internal/schedule"
	"github.com/storekit/STF-ReservationService/internal/scheduling"
	"github.com/storekit/STF-ReservationService/pkg/tzoffset"
)

// UseCase use case переноса бронирования на новое время.
//
// Попытка переноса проходит цепочку проверок в фиксированном порядке:
// блокировка текущего времени, рабочие часы, конфликт слота. Если новое
// время попадает внутрь окна блокировки изменений, фиксация откладывается
// до повторного запроса с Confirmed=true.
type UseCase struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	storeClient     StoreServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	// inFlight гарантирует не более одной активной попытки переноса
	// на бронирование в пределах процесса
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	storeClient StoreServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policyRepo:      policyRepo,
		storeClient:     storeClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		inFlight:        make(map[int64]struct{}),
	}
}

// Execute выполняет попытку переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleReservation: reservation=%d, user=%d, date=%s, time=%s, confirmed=%t, decline=%t",
		req.ReservationID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.Confirmed, req.Decline)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Эксклюзивность попытки для одного бронирования
	if !uc.acquire(req.ReservationID) {
		uc.logger.Warn("RescheduleReservation: concurrent attempt for reservation id=%d", req.ReservationID)
		return nil, ErrRescheduleInProgress
	}
	defer uc.release(req.ReservationID)

	// 3. Получаем бронирование
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("RescheduleReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("RescheduleReservation: repository error for id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	// 4. Отказ пользователя завершает ожидающую попытку без изменений
	if req.Decline {
		uc.logger.Info("RescheduleReservation: user declined pending attempt for reservation id=%d", res.ID)
		return &Response{
			Status:          StatusDeclined,
			ReservationID:   res.ID,
			OldStartUTC:     res.StartTime,
			DurationMinutes: res.DurationMinutes,
		}, nil
	}

	// 5. Получаем магазин и права доступа
	store, err := uc.storeClient.GetStore(ctx, res.StoreID)
	if err != nil {
		if errors.Is(err, storeservice.ErrStoreNotFound) {
			uc.logger.Warn("RescheduleReservation: store id=%d not found", res.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("RescheduleReservation: failed to get store id=%d: %v", res.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	isManager := store.IsManager(req.UserID)
	if !isManager && res.UserID != req.UserID {
		uc.logger.Warn("RescheduleReservation: access denied for user=%d to reservation id=%d", req.UserID, res.ID)
		return nil, ErrAccessDenied
	}

	// 6. Конечные статусы переносить нельзя
	if !res.IsMutable() {
		uc.logger.Warn("RescheduleReservation: reservation id=%d is immutable, status=%s", res.ID, res.Status)
		return nil, ErrCannotReschedule
	}

	now := uc.timeProvider.Now()

	// 7. Новое время начала в UTC
	offset, known := tzoffset.OffsetHoursOrDefault(store.Timezone)
	if !known {
		uc.logger.Warn("RescheduleReservation: unknown timezone %q for store id=%d, using default offset %+d",
			store.Timezone, res.StoreID, offset)
	}

	newStartUTC, err := tzoffset.CombineDayAndSlot(req.Date, req.StartTime, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *Response

	// 8. Проверки и фиксация в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Политика бронирования (или дефолтная)
		policy, err := uc.policyRepo.GetByStoreID(txCtx, res.StoreID)
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("RescheduleReservation: failed to get policy: %v", err)
			return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		if policy == nil {
			policy = domain.DefaultPolicyConfig(res.StoreID)
		}

		// 8.2. Блокировка по текущему времени бронирования,
		// менеджер магазина её обходит
		if !isManager && scheduling.InCancelLockout(now, res.StartTime, policy.CanCancel, policy.CancelHours) {
			uc.logger.Warn("RescheduleReservation: reservation id=%d inside edit lockout (cancelHours=%d)",
				res.ID, policy.CancelHours)
			return ErrCurrentlyLocked
		}

		// 8.3. Рабочие часы для нового времени
		hours, err := uc.resolveHours(txCtx, store, policy, res)
		if err != nil {
			return err
		}
		if !schedule.IsOpenAt(hours, newStartUTC, offset) {
			uc.logger.Warn("RescheduleReservation: new time %s outside business hours for store=%d",
				newStartUTC.Format(time.RFC3339), res.StoreID)
			return ErrOutsideBusinessHours
		}

		// 8.4. Конфликт слота: бронирования дня с блокировкой строк,
		// само переносимое бронирование из рассмотрения исключается.
		// Начало окна сдвигаем назад на максимальную длительность,
		// чтобы увидеть бронирования прошлого дня с хвостом в текущем
		dayStartUTC := tzoffset.ToUTC(startOfDay(req.Date), offset).
			Add(-domain.MaxDurationMinutes * time.Minute)
		dayEndUTC := tzoffset.ToUTC(startOfDay(req.Date).AddDate(0, 0, 1), offset)

		reservations, err := uc.reservationRepo.GetByStoreWithFilter(txCtx, domain.StoreReservationsFilter{
			StoreID:         res.StoreID,
			StartDate:       &dayStartUTC,
			EndDate:         &dayEndUTC,
			IncludeInactive: false,
		})
		if err != nil {
			uc.logger.Error("RescheduleReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		others := make([]*domain.Reservation, 0, len(reservations))
		for _, r := range reservations {
			if r.ID != res.ID {
				others = append(others, r)
			}
		}

		resourceKey := scheduling.ReservationResourceKey(res, policy.SingleServiceMode)
		resolver := scheduling.DurationResolver{DefaultMinutes: policy.DefaultDurationMinutes}

		if !scheduling.SlotAvailable(newStartUTC, res.DurationMinutes, resourceKey, others, resolver, policy.SingleServiceMode) {
			uc.logger.Warn("RescheduleReservation: new time %s conflicts for resource %s",
				newStartUTC.Format(time.RFC3339), resourceKey)
			return ErrSlotConflict
		}

		// 8.5. Новое время внутри окна блокировки требует явного согласия:
		// после переноса бронирование станет неизменяемым
		if !isManager && !req.Confirmed && scheduling.WouldEnterLockoutIfMoved(newStartUTC, policy, now) {
			uc.logger.Info("RescheduleReservation: reservation id=%d needs confirmation, new time inside lockout window",
				res.ID)
			result = &Response{
				Status:          StatusAwaitingConfirmation,
				ReservationID:   res.ID,
				OldStartUTC:     res.StartTime,
				NewStartUTC:     newStartUTC,
				DurationMinutes: res.DurationMinutes,
				Warning: fmt.Sprintf("new time is within %d hours from now, the reservation cannot be edited again after the move",
					policy.CancelHours),
			}
			return nil
		}

		// 8.6. Фиксируем перенос
		if err := uc.reservationRepo.UpdateSchedule(txCtx, res.ID, newStartUTC); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			uc.logger.Error("RescheduleReservation: failed to update schedule for id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		result = &Response{
			Status:          StatusCommitted,
			ReservationID:   res.ID,
			OldStartUTC:     res.StartTime,
			NewStartUTC:     newStartUTC,
			DurationMinutes: res.DurationMinutes,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleReservation: reservation id=%d finished with status=%s", res.ID, result.Status)
	return result, nil
}

// resolveHours выбирает расписание для проверки нового времени:
// часы места или сотрудника бронирования, иначе расписание магазина
func (uc *UseCase) resolveHours(
	ctx context.Context,
	store *storeservice.Store,
	policy *domain.PolicyConfig,
	res *domain.Reservation,
) (*domain.WeeklySchedule, error) {
	if res.FacilityID != nil {
		facilities, err := uc.storeClient.GetFacilities(ctx, res.StoreID)
		if err != nil {
			uc.logger.Error("RescheduleReservation: failed to get facilities: %v", err)
			return nil, fmt.Errorf("%w: failed to get facilities: %v", ErrInternal, err)
		}
		for i := range facilities {
			if facilities[i].ID == *res.FacilityID && len(facilities[i].Hours) > 0 {
				return schedule.ParseOrDefault(facilities[i].Hours, uc.logger), nil
			}
		}
	}

	if res.StaffID != nil {
		staff, err := uc.storeClient.GetStaff(ctx, res.StoreID)
		if err != nil {
			uc.logger.Error("RescheduleReservation: failed to get staff: %v", err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		for i := range staff {
			if staff[i].ID == *res.StaffID && len(staff[i].Hours) > 0 {
				return schedule.ParseOrDefault(staff[i].Hours, uc.logger), nil
			}
		}
	}

	if !policy.UseBusinessHours && policy.RsvpHoursJSON != nil {
		return schedule.ParseOrDefault([]byte(*policy.RsvpHoursJSON), uc.logger), nil
	}
	return schedule.ParseOrDefault(store.BusinessHours, uc.logger), nil
}

func (uc *UseCase) acquire(reservationID int64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inFlight[reservationID]; busy {
		return false
	}
	uc.inFlight[reservationID] = struct{}{}
	return true
}

func (uc *UseCase) release(reservationID int64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inFlight, reservationID)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.Confirmed && req.Decline {
		return fmt.Errorf("%w: confirmed and decline are mutually exclusive", ErrInvalidInput)
	}
	if req.Decline {
		// Отказ не несет нового времени
		return nil
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.StartTime.IsValid() {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}
	return nil
}

// startOfDay обнуляет время, оставляя только календарную дату
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
