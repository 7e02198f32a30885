package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	policyRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/policy"
	"github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
	"github.com/storekit/STF-ReservationService/internal/schedule"
	"github.com/storekit/STF-ReservationService/internal/scheduling"
	"github.com/storekit/STF-ReservationService/pkg/tzoffset"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	storeClient     StoreServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
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
	}
}

// Execute выполняет use case создания бронирования.
// Проверка доступности слота и вставка идут в сериализуемой транзакции:
// это предотвращает гонку двух клиентов за один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, store=%d, facility=%v, staff=%v, date=%s, time=%s",
		req.UserID, req.StoreID, req.FacilityID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем магазин
	store, err := uc.storeClient.GetStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, storeservice.ErrStoreNotFound) {
			uc.logger.Warn("CreateReservation: store id=%d not found", req.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("CreateReservation: failed to get store id=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	// 4. Смещение таймзоны и момент начала в UTC
	offset, known := tzoffset.OffsetHoursOrDefault(store.Timezone)
	if !known {
		uc.logger.Warn("CreateReservation: unknown timezone %q for store id=%d, using default offset %+d",
			store.Timezone, req.StoreID, offset)
	}

	startUTC, err := tzoffset.CombineDayAndSlot(req.Date, req.StartTime, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 5. Получаем места и сотрудников для переопределений и денормализации
	facilities, err := uc.storeClient.GetFacilities(ctx, req.StoreID)
	if err != nil && !errors.Is(err, storeservice.ErrStoreNotFound) {
		uc.logger.Error("CreateReservation: failed to get facilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get facilities: %v", ErrInternal, err)
	}

	var facility *storeservice.Facility
	if req.FacilityID != nil {
		facility = findFacility(facilities, *req.FacilityID)
		if facility == nil {
			uc.logger.Warn("CreateReservation: facility id=%d not found in store id=%d", *req.FacilityID, req.StoreID)
			return nil, ErrFacilityNotFound
		}
	}

	var staff *storeservice.Staff
	if req.StaffID != nil {
		staffList, err := uc.storeClient.GetStaff(ctx, req.StoreID)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get staff: %v", err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		staff = findStaff(staffList, *req.StaffID)
		if staff == nil {
			uc.logger.Warn("CreateReservation: staff id=%d not found in store id=%d", *req.StaffID, req.StoreID)
			return nil, ErrStaffNotFound
		}
	}

	// Переменная для хранения результата
	var result *domain.Reservation

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Политика бронирования (или дефолтная)
		policy, err := uc.policyRepo.GetByStoreID(txCtx, req.StoreID)
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("CreateReservation: failed to get policy: %v", err)
			return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		if policy == nil {
			policy = domain.DefaultPolicyConfig(req.StoreID)
			uc.logger.Info("CreateReservation: using default policy for store=%d", req.StoreID)
		}

		// 6.2. Окно заблаговременного бронирования
		if !scheduling.WithinAdvanceWindow(now, startUTC, policy.CanReserveBefore, policy.CanReserveAfter) {
			uc.logger.Warn("CreateReservation: time %s outside advance window (before=%dh, after=%dh)",
				startUTC.Format(time.RFC3339), policy.CanReserveBefore, policy.CanReserveAfter)
			return ErrAdvanceWindow
		}

		// 6.3. Расписание: место -> сотрудник -> магазин
		hours := resolveHours(store, policy, facility, staff, uc.logger)
		if !schedule.IsOpenAt(hours, startUTC, offset) {
			uc.logger.Warn("CreateReservation: time %s is outside business hours for store=%d",
				startUTC.Format(time.RFC3339), req.StoreID)
			return ErrOutsideBusinessHours
		}

		// 6.4. Эффективная длительность: место -> дефолт магазина
		duration := policy.DefaultDurationMinutes
		if facility != nil && facility.DurationMinutes != nil && *facility.DurationMinutes > 0 {
			duration = *facility.DurationMinutes
		}

		// 6.5. Активные бронирования дня с блокировкой строк.
		// Начало окна сдвигаем назад на максимальную длительность:
		// бронирование прошлого дня может дотягиваться до текущего
		dayStartUTC := tzoffset.ToUTC(startOfDay(req.Date), offset).
			Add(-domain.MaxDurationMinutes * time.Minute)
		dayEndUTC := tzoffset.ToUTC(startOfDay(req.Date).AddDate(0, 0, 1), offset)

		filter := domain.StoreReservationsFilter{
			StoreID:         req.StoreID,
			StartDate:       &dayStartUTC,
			EndDate:         &dayEndUTC,
			IncludeInactive: false,
		}

		reservations, err := uc.reservationRepo.GetByStoreWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 6.6. Проверяем доступность слота
		resourceKey := candidateResourceKey(req, policy.SingleServiceMode)
		resolver := scheduling.DurationResolver{
			FacilityDurations: facilityDurationMap(facilities, policy.DefaultDurationMinutes),
			DefaultMinutes:    policy.DefaultDurationMinutes,
		}

		if !scheduling.SlotAvailable(startUTC, duration, resourceKey, reservations, resolver, policy.SingleServiceMode) {
			uc.logger.Warn("CreateReservation: slot %s not available for resource %s",
				startUTC.Format(time.RFC3339), resourceKey)
			return ErrSlotConflict
		}

		// 6.7. Создаем бронирование с денормализацией данных
		res := &domain.Reservation{
			StoreID:         req.StoreID,
			UserID:          req.UserID,
			ContactName:     req.ContactName,
			ContactPhone:    req.ContactPhone,
			StartTime:       startUTC,
			DurationMinutes: duration,
			Status:          domain.StatusPending,
			FacilityID:      req.FacilityID,
			StaffID:         req.StaffID,
			Notes:           req.Notes,
		}
		if facility != nil {
			res.FacilityName = &facility.Name
		}
		if staff != nil {
			res.StaffName = &staff.Name
		}

		created, err := uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		StoreID:         result.StoreID,
		UserID:          result.UserID,
		StartUTC:        result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		FacilityID:      result.FacilityID,
		StaffID:         result.StaffID,
		FacilityName:    result.FacilityName,
		StaffName:       result.StaffName,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveHours выбирает действующее расписание: персональные часы места
// или сотрудника, иначе расписание магазина согласно политике
func resolveHours(
	store *storeservice.Store,
	policy *domain.PolicyConfig,
	facility *storeservice.Facility,
	staff *storeservice.Staff,
	log Logger,
) *domain.WeeklySchedule {
	if facility != nil && len(facility.Hours) > 0 {
		return schedule.ParseOrDefault(facility.Hours, log)
	}
	if staff != nil && len(staff.Hours) > 0 {
		return schedule.ParseOrDefault(staff.Hours, log)
	}
	if !policy.UseBusinessHours && policy.RsvpHoursJSON != nil {
		return schedule.ParseOrDefault([]byte(*policy.RsvpHoursJSON), log)
	}
	return schedule.ParseOrDefault(store.BusinessHours, log)
}

// candidateResourceKey возвращает ресурс, за который конкурирует запрос
func candidateResourceKey(req *Request, singleServiceMode bool) scheduling.ResourceKey {
	if singleServiceMode {
		return scheduling.StoreWideKey
	}
	if req.FacilityID != nil {
		return scheduling.FacilityKey(*req.FacilityID)
	}
	if req.StaffID != nil {
		return scheduling.StaffKey(*req.StaffID)
	}
	return scheduling.StoreWideKey
}

func findFacility(facilities []storeservice.Facility, id int64) *storeservice.Facility {
	for i := range facilities {
		if facilities[i].ID == id {
			return &facilities[i]
		}
	}
	return nil
}

func findStaff(staff []storeservice.Staff, id int64) *storeservice.Staff {
	for i := range staff {
		if staff[i].ID == id {
			return &staff[i]
		}
	}
	return nil
}

func facilityDurationMap(facilities []storeservice.Facility, defaultMinutes int) map[int64]int {
	durations := make(map[int64]int, len(facilities))
	for _, f := range facilities {
		if f.DurationMinutes != nil && *f.DurationMinutes > 0 {
			durations[f.ID] = *f.DurationMinutes
		} else {
			durations[f.ID] = defaultMinutes
		}
	}
	return durations
}

// startOfDay обнуляет время, оставляя только календарную дату
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
