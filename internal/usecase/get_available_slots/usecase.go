package get_available_slots

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

// UseCase use case для получения сетки доступных слотов.
// Единая точка расчета доступности: календарь магазина, админский
// календарь и выбор слота при переносе - тонкие вызыватели этого
// usecase с разными фильтрами ресурса.
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

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, store=%d, facility=%v, staff=%v, date=%s, days=%d",
		req.UserID, req.StoreID, req.FacilityID, req.StaffID, req.Date.Format(domain.DateFormat), req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	days := req.Days
	if days == 0 {
		days = 1
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем магазин
	store, err := uc.storeClient.GetStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, storeservice.ErrStoreNotFound) {
			uc.logger.Warn("GetAvailableSlots: store id=%d not found", req.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get store id=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	// 4. Определяем смещение таймзоны магазина
	offset, known := tzoffset.OffsetHoursOrDefault(store.Timezone)
	if !known {
		uc.logger.Warn("GetAvailableSlots: unknown timezone %q for store id=%d, using default offset %+d",
			store.Timezone, req.StoreID, offset)
	}

	// 5. Получаем политику бронирования (или дефолтную)
	policy, err := uc.policyRepo.GetByStoreID(ctx, req.StoreID)
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultPolicyConfig(req.StoreID)
		uc.logger.Info("GetAvailableSlots: using default policy for store=%d", req.StoreID)
	}

	// 6. Выбираем расписание: RSVP-часы или общие часы работы магазина
	storeHours := resolveStoreHours(store, policy, uc.logger)

	// 7. Получаем места магазина (нужны для приоритета длительностей)
	facilities, err := uc.storeClient.GetFacilities(ctx, req.StoreID)
	if err != nil && !errors.Is(err, storeservice.ErrStoreNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get facilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get facilities: %v", ErrInternal, err)
	}

	// 8. Определяем расписание, длительность и ресурс запрошенного объекта
	hours := storeHours
	duration := policy.DefaultDurationMinutes
	resourceKey := scheduling.StoreWideKey

	if req.FacilityID != nil {
		facility := findFacility(facilities, *req.FacilityID)
		if facility == nil {
			uc.logger.Warn("GetAvailableSlots: facility id=%d not found in store id=%d", *req.FacilityID, req.StoreID)
			return nil, ErrFacilityNotFound
		}
		if facility.DurationMinutes != nil && *facility.DurationMinutes > 0 {
			duration = *facility.DurationMinutes
		}
		if len(facility.Hours) > 0 {
			hours = schedule.ParseOrDefault(facility.Hours, uc.logger)
		}
		resourceKey = scheduling.FacilityKey(*req.FacilityID)
	}

	if req.StaffID != nil {
		staffHours, err := uc.resolveStaffHours(ctx, req.StoreID, *req.StaffID)
		if err != nil {
			return nil, err
		}
		if staffHours != nil {
			hours = staffHours
		}
		resourceKey = scheduling.StaffKey(*req.StaffID)
	}

	// В режиме single-service любой запрос конкурирует за магазин целиком
	if policy.SingleServiceMode {
		resourceKey = scheduling.StoreWideKey
	}

	// 9. Получаем активные бронирования на весь запрошенный период.
	// Начало окна сдвигаем назад на максимальную длительность, чтобы
	// учесть бронирования прошлого дня с хвостом внутри периода
	windowStartUTC := tzoffset.ToUTC(startOfDay(req.Date), offset).
		Add(-domain.MaxDurationMinutes * time.Minute)
	windowEndUTC := tzoffset.ToUTC(startOfDay(req.Date).AddDate(0, 0, days), offset)

	filter := domain.StoreReservationsFilter{
		StoreID:         req.StoreID,
		StartDate:       &windowStartUTC,
		EndDate:         &windowEndUTC,
		IncludeInactive: false, // Только активные бронирования
	}

	reservations, err := uc.reservationRepo.GetByStoreWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	resolver := scheduling.DurationResolver{
		FacilityDurations: facilityDurationMap(facilities, policy.DefaultDurationMinutes),
		DefaultMinutes:    policy.DefaultDurationMinutes,
	}

	// 10. Строим сетку: генерация слотов, окно заблаговременности, конфликты
	grid := make([]DaySlots, 0, days)
	for i := 0; i < days; i++ {
		day := startOfDay(req.Date).AddDate(0, 0, i)

		slots := make([]Slot, 0)
		if !hours.IsHoliday(day) {
			for _, start := range scheduling.GenerateDailySlots(hours, day.Weekday(), duration) {
				startUTC, err := tzoffset.CombineDayAndSlot(day, start, offset)
				if err != nil {
					continue
				}

				// Прошедшие и слишком близкие/далекие слоты отфильтровываются политикой
				if !scheduling.WithinAdvanceWindow(now, startUTC, policy.CanReserveBefore, policy.CanReserveAfter) {
					continue
				}

				slots = append(slots, Slot{
					StartTime:       start,
					StartUTC:        startUTC,
					DurationMinutes: duration,
					Available: scheduling.SlotAvailable(
						startUTC, duration, resourceKey, reservations, resolver, policy.SingleServiceMode),
				})
			}
		}

		grid = append(grid, DaySlots{Date: day, Slots: slots})
	}

	uc.logger.Info("GetAvailableSlots: built %d day(s) of slots for store=%d", len(grid), req.StoreID)

	return &Response{
		StoreID:    req.StoreID,
		FacilityID: req.FacilityID,
		StaffID:    req.StaffID,
		Timezone:   store.Timezone,
		Days:       grid,
	}, nil
}

// resolveStaffHours возвращает персональное расписание сотрудника,
// либо nil, если у сотрудника нет переопределения
func (uc *UseCase) resolveStaffHours(ctx context.Context, storeID, staffID int64) (*domain.WeeklySchedule, error) {
	staff, err := uc.storeClient.GetStaff(ctx, storeID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	for _, s := range staff {
		if s.ID == staffID {
			if len(s.Hours) > 0 {
				return schedule.ParseOrDefault(s.Hours, uc.logger), nil
			}
			return nil, nil
		}
	}

	uc.logger.Warn("GetAvailableSlots: staff id=%d not found in store id=%d", staffID, storeID)
	return nil, ErrStaffNotFound
}

// resolveStoreHours выбирает расписание магазина согласно политике:
// общие часы работы либо отдельные RSVP-часы
func resolveStoreHours(store *storeservice.Store, policy *domain.PolicyConfig, log Logger) *domain.WeeklySchedule {
	if !policy.UseBusinessHours && policy.RsvpHoursJSON != nil {
		return schedule.ParseOrDefault([]byte(*policy.RsvpHoursJSON), log)
	}
	return schedule.ParseOrDefault(store.BusinessHours, log)
}

func findFacility(facilities []storeservice.Facility, id int64) *storeservice.Facility {
	for i := range facilities {
		if facilities[i].ID == id {
			return &facilities[i]
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
