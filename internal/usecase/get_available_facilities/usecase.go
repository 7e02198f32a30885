package get_available_facilities

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

// UseCase use case для получения мест, доступных в конкретный момент.
// Серверная проверка доступности: UI может прятать занятые места,
// но авторитетный ответ всегда отсюда.
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

// Execute выполняет use case получения доступных мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableFacilities: user=%d, store=%d, date=%s, time=%s",
		req.UserID, req.StoreID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if req.StoreID <= 0 {
		return nil, fmt.Errorf("%w: storeID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.StartTime.IsValid() {
		return nil, fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}

	// 2. Получаем магазин
	store, err := uc.storeClient.GetStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, storeservice.ErrStoreNotFound) {
			uc.logger.Warn("GetAvailableFacilities: store id=%d not found", req.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("GetAvailableFacilities: failed to get store id=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	// 3. Смещение таймзоны и момент кандидата в UTC
	offset, known := tzoffset.OffsetHoursOrDefault(store.Timezone)
	if !known {
		uc.logger.Warn("GetAvailableFacilities: unknown timezone %q for store id=%d, using default offset %+d",
			store.Timezone, req.StoreID, offset)
	}

	candidateUTC, err := tzoffset.CombineDayAndSlot(req.Date, req.StartTime, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Политика бронирования
	policy, err := uc.policyRepo.GetByStoreID(ctx, req.StoreID)
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailableFacilities: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultPolicyConfig(req.StoreID)
	}

	// 5. Расписание магазина и места
	var storeHours *domain.WeeklySchedule
	if !policy.UseBusinessHours && policy.RsvpHoursJSON != nil {
		storeHours = schedule.ParseOrDefault([]byte(*policy.RsvpHoursJSON), uc.logger)
	} else {
		storeHours = schedule.ParseOrDefault(store.BusinessHours, uc.logger)
	}

	rawFacilities, err := uc.storeClient.GetFacilities(ctx, req.StoreID)
	if err != nil && !errors.Is(err, storeservice.ErrStoreNotFound) {
		uc.logger.Error("GetAvailableFacilities: failed to get facilities: %v", err)
		return nil, fmt.Errorf("%w: failed to get facilities: %v", ErrInternal, err)
	}

	facilities := make([]scheduling.Facility, 0, len(rawFacilities))
	for _, f := range rawFacilities {
		facility := scheduling.Facility{
			ID:              f.ID,
			Name:            f.Name,
			DurationMinutes: f.DurationMinutes,
		}
		if len(f.Hours) > 0 {
			facility.Hours = schedule.ParseOrDefault(f.Hours, uc.logger)
		}
		facilities = append(facilities, facility)
	}

	// 6. Активные бронирования вокруг кандидата.
	// Берем окно в сутки в обе стороны: этого достаточно для любых
	// переопределений длительности в пределах MaxDurationMinutes.
	windowStart := candidateUTC.Add(-24 * time.Hour)
	windowEnd := candidateUTC.Add(24 * time.Hour)

	filter := domain.StoreReservationsFilter{
		StoreID:         req.StoreID,
		StartDate:       &windowStart,
		EndDate:         &windowEnd,
		IncludeInactive: false,
	}

	reservations, err := uc.reservationRepo.GetByStoreWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableFacilities: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 7. Отдаем движку
	available := scheduling.FacilitiesAvailableAt(candidateUTC, facilities, storeHours, offset, reservations, policy)

	result := make([]AvailableFacility, 0, len(available))
	for _, f := range available {
		result = append(result, AvailableFacility{
			ID:              f.ID,
			Name:            f.Name,
			DurationMinutes: f.SlotDuration(policy.DefaultDurationMinutes),
		})
	}

	uc.logger.Info("GetAvailableFacilities: %d of %d facilities available for store=%d at %s",
		len(result), len(facilities), req.StoreID, candidateUTC.Format(time.RFC3339))

	return &Response{
		StoreID:    req.StoreID,
		StartUTC:   candidateUTC,
		Facilities: result,
	}, nil
}
