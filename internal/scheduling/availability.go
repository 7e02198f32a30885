package scheduling

import (
	"fmt"
	"time"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/internal/schedule"
)

// ResourceKey идентифицирует ресурс, за который конкурируют бронирования:
// конкретное место, конкретный сотрудник или магазин целиком.
type ResourceKey string

// StoreWideKey ресурс "магазин целиком" - используется в режиме
// single-service, когда любое активное бронирование занимает слот
// для всего магазина.
const StoreWideKey ResourceKey = "store"

// FacilityKey возвращает ключ ресурса для места
func FacilityKey(id int64) ResourceKey {
	return ResourceKey(fmt.Sprintf("facility:%d", id))
}

// StaffKey возвращает ключ ресурса для сотрудника
func StaffKey(id int64) ResourceKey {
	return ResourceKey(fmt.Sprintf("staff:%d", id))
}

// ReservationResourceKey возвращает ресурс, который занимает бронирование.
// В режиме single-service все бронирования конкурируют за StoreWideKey.
func ReservationResourceKey(r *domain.Reservation, singleServiceMode bool) ResourceKey {
	if singleServiceMode {
		return StoreWideKey
	}
	if r.FacilityID != nil {
		return FacilityKey(*r.FacilityID)
	}
	if r.StaffID != nil {
		return StaffKey(*r.StaffID)
	}
	return StoreWideKey
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов
// [s1, s1+d1) и [s2, s2+d2). Касание границ пересечением не считается.
func Overlaps(s1 time.Time, d1 int, s2 time.Time, d2 int) bool {
	e1 := s1.Add(time.Duration(d1) * time.Minute)
	e2 := s2.Add(time.Duration(d2) * time.Minute)
	return s1.Before(e2) && s2.Before(e1)
}

// DurationResolver вычисляет эффективную длительность бронирования.
// Приоритет: длительность, зафиксированная в самом бронировании,
// затем длительность, настроенная для места бронирования,
// иначе дефолтная длительность магазина.
type DurationResolver struct {
	FacilityDurations map[int64]int // facility id -> минуты
	DefaultMinutes    int
}

// Resolve возвращает эффективную длительность бронирования в минутах
func (dr DurationResolver) Resolve(r *domain.Reservation) int {
	if r.DurationMinutes > 0 {
		return r.DurationMinutes
	}
	if r.FacilityID != nil {
		if d, ok := dr.FacilityDurations[*r.FacilityID]; ok && d > 0 {
			return d
		}
	}
	return dr.DefaultMinutes
}

// SlotAvailable проверяет, свободен ли слот [candidateStart, +durationMinutes)
// на ресурсе key. Бронирования со статусом Cancelled и записи с битыми
// временными данными в расчет не входят; все остальные статусы
// (включая NoShow) занимают слот.
//
// Функция детерминирована: доступность - чистая функция входных данных.
func SlotAvailable(
	candidateStart time.Time,
	durationMinutes int,
	key ResourceKey,
	reservations []*domain.Reservation,
	resolver DurationResolver,
	singleServiceMode bool,
) bool {
	for _, r := range reservations {
		if !r.Blocks() || !r.HasValidSchedule() {
			continue
		}
		if ReservationResourceKey(r, singleServiceMode) != key {
			continue
		}
		if Overlaps(candidateStart, durationMinutes, r.StartTime, resolver.Resolve(r)) {
			return false
		}
	}
	return true
}

// Facility место обслуживания с опциональными переопределениями
// длительности и расписания
type Facility struct {
	ID              int64
	Name            string
	DurationMinutes *int                   // nil = дефолтная длительность магазина
	Hours           *domain.WeeklySchedule // nil = расписание магазина
}

// SlotDuration возвращает длительность слота для места
func (f Facility) SlotDuration(defaultMinutes int) int {
	if f.DurationMinutes != nil && *f.DurationMinutes > 0 {
		return *f.DurationMinutes
	}
	return defaultMinutes
}

// FacilitiesAvailableAt возвращает места, доступные в момент candidateUTC:
// часы работы места (или магазина) допускают этот момент, и на месте нет
// конфликтующего бронирования.
//
// В режиме single-service любое активное бронирование в слоте закрывает
// весь магазин: возвращаются либо все открытые в этот момент места,
// либо ни одного.
func FacilitiesAvailableAt(
	candidateUTC time.Time,
	facilities []Facility,
	storeHours *domain.WeeklySchedule,
	offsetHours int,
	reservations []*domain.Reservation,
	policy *domain.PolicyConfig,
) []Facility {
	resolver := DurationResolver{
		FacilityDurations: facilityDurations(facilities, policy.DefaultDurationMinutes),
		DefaultMinutes:    policy.DefaultDurationMinutes,
	}

	if policy.SingleServiceMode {
		if !SlotAvailable(candidateUTC, policy.DefaultDurationMinutes, StoreWideKey, reservations, resolver, true) {
			return []Facility{}
		}
	}

	available := make([]Facility, 0, len(facilities))
	for _, f := range facilities {
		hours := storeHours
		if f.Hours != nil {
			hours = f.Hours
		}
		if !schedule.IsOpenAt(hours, candidateUTC, offsetHours) {
			continue
		}

		if !policy.SingleServiceMode {
			duration := f.SlotDuration(policy.DefaultDurationMinutes)
			if !SlotAvailable(candidateUTC, duration, FacilityKey(f.ID), reservations, resolver, false) {
				continue
			}
		}

		available = append(available, f)
	}
	return available
}

func facilityDurations(facilities []Facility, defaultMinutes int) map[int64]int {
	durations := make(map[int64]int, len(facilities))
	for _, f := range facilities {
		durations[f.ID] = f.SlotDuration(defaultMinutes)
	}
	return durations
}
