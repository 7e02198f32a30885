package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/pkg/ptr"
)

func reservation(id int64, start time.Time, duration int, status domain.ReservationStatus, facilityID *int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		StoreID:         1,
		UserID:          100,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
		FacilityID:      facilityID,
	}
}

func TestOverlaps_Symmetry(t *testing.T) {
	base := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		s1 time.Time
		d1 int
		s2 time.Time
		d2 int
	}{
		{base, 60, base.Add(30 * time.Minute), 60},
		{base, 60, base.Add(60 * time.Minute), 60},
		{base, 60, base.Add(2 * time.Hour), 30},
		{base, 120, base.Add(30 * time.Minute), 30},
	}

	for _, c := range cases {
		assert.Equal(t, Overlaps(c.s1, c.d1, c.s2, c.d2), Overlaps(c.s2, c.d2, c.s1, c.d1))
	}
}

func TestOverlaps_HalfOpenBoundary(t *testing.T) {
	// 10:00-11:00 и 11:00-12:00 не пересекаются: касание границ допустимо
	s1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s2 := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	assert.False(t, Overlaps(s1, 60, s2, 60))
	assert.True(t, Overlaps(s1, 61, s2, 60))
	assert.True(t, Overlaps(s1, 60, s1.Add(30*time.Minute), 60))
}

func TestSlotAvailable_CancelledNeverBlocks(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	resolver := DurationResolver{DefaultMinutes: 60}

	cancelled := []*domain.Reservation{
		reservation(1, start, 60, domain.StatusCancelled, ptr.Ptr(int64(5))),
	}
	assert.True(t, SlotAvailable(start, 60, FacilityKey(5), cancelled, resolver, false))

	// NoShow продолжает занимать свой исходный слот
	noShow := []*domain.Reservation{
		reservation(2, start, 60, domain.StatusNoShow, ptr.Ptr(int64(5))),
	}
	assert.False(t, SlotAvailable(start, 60, FacilityKey(5), noShow, resolver, false))
}

func TestSlotAvailable_SkipsInvalidSchedules(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	resolver := DurationResolver{DefaultMinutes: 60}

	// Запись с нулевым временем не должна блокировать расчет
	broken := reservation(1, time.Time{}, 60, domain.StatusReady, ptr.Ptr(int64(5)))
	zeroDuration := reservation(2, start, 0, domain.StatusReady, ptr.Ptr(int64(5)))

	assert.True(t, SlotAvailable(start, 60, FacilityKey(5),
		[]*domain.Reservation{broken, zeroDuration}, resolver, false))
}

func TestSlotAvailable_ResourceIsolation(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	resolver := DurationResolver{DefaultMinutes: 60}

	taken := []*domain.Reservation{
		reservation(1, start, 60, domain.StatusReady, ptr.Ptr(int64(5))),
	}

	// Другое место в тот же момент свободно
	assert.False(t, SlotAvailable(start, 60, FacilityKey(5), taken, resolver, false))
	assert.True(t, SlotAvailable(start, 60, FacilityKey(6), taken, resolver, false))
}

func TestSlotAvailable_TwoReservationScenario(t *testing.T) {
	// Место F: бронирования 14:00-15:00 и 15:00-16:00
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	facilityF := ptr.Ptr(int64(7))
	resolver := DurationResolver{DefaultMinutes: 60}

	reservations := []*domain.Reservation{
		reservation(1, day.Add(14*time.Hour), 60, domain.StatusReady, facilityF),
		reservation(2, day.Add(15*time.Hour), 60, domain.StatusReady, facilityF),
	}

	// 14:30-15:30 на F пересекает оба - отказ
	assert.False(t, SlotAvailable(day.Add(14*time.Hour+30*time.Minute), 60, FacilityKey(7), reservations, resolver, false))

	// 15:00-16:00 на другом месте - свободно
	assert.True(t, SlotAvailable(day.Add(15*time.Hour), 60, FacilityKey(8), reservations, resolver, false))

	// 16:00-17:00 на F - свободно, касание границы
	assert.True(t, SlotAvailable(day.Add(16*time.Hour), 60, FacilityKey(7), reservations, resolver, false))
}

func TestSlotAvailable_SingleServiceMode(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	resolver := DurationResolver{DefaultMinutes: 60}

	// В режиме single-service бронирование места 5 закрывает весь магазин
	taken := []*domain.Reservation{
		reservation(1, start, 60, domain.StatusReady, ptr.Ptr(int64(5))),
	}

	assert.False(t, SlotAvailable(start, 60, StoreWideKey, taken, resolver, true))
	assert.True(t, SlotAvailable(start.Add(time.Hour), 60, StoreWideKey, taken, resolver, true))
}

func TestDurationResolver(t *testing.T) {
	resolver := DurationResolver{
		FacilityDurations: map[int64]int{5: 90},
		DefaultMinutes:    60,
	}

	// Сохраненная в бронировании длительность имеет приоритет над
	// текущей настройкой места
	stored := reservation(1, time.Now(), 120, domain.StatusReady, ptr.Ptr(int64(5)))
	assert.Equal(t, 120, resolver.Resolve(stored))

	withOverride := reservation(2, time.Now(), 0, domain.StatusReady, ptr.Ptr(int64(5)))
	assert.Equal(t, 90, resolver.Resolve(withOverride))

	unknownFacility := reservation(3, time.Now(), 0, domain.StatusReady, ptr.Ptr(int64(9)))
	assert.Equal(t, 60, resolver.Resolve(unknownFacility))

	noFacility := reservation(4, time.Now(), 0, domain.StatusReady, nil)
	assert.Equal(t, 60, resolver.Resolve(noFacility))
}

func TestFacilitiesAvailableAt(t *testing.T) {
	// Понедельник 2026-03-02, 14:00 локального UTC+8 = 06:00 UTC
	candidateUTC := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	storeHours := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Monday: {{From: "09:00", To: "18:00"}},
	})

	facilities := []Facility{
		{ID: 1, Name: "Room A"},
		{ID: 2, Name: "Room B"},
		{ID: 3, Name: "Evening Room", Hours: weeklySchedule(map[time.Weekday][]domain.TimeRange{
			time.Monday: {{From: "18:00", To: "22:00"}},
		})},
	}

	policy := domain.DefaultPolicyConfig(1)

	// Room A занята, Room B свободна, Evening Room закрыта в 14:00
	reservations := []*domain.Reservation{
		reservation(1, candidateUTC, 60, domain.StatusReady, ptr.Ptr(int64(1))),
	}

	available := FacilitiesAvailableAt(candidateUTC, facilities, storeHours, 8, reservations, policy)
	require.Len(t, available, 1)
	assert.Equal(t, int64(2), available[0].ID)
}

func TestFacilitiesAvailableAt_SingleServiceAllOrNone(t *testing.T) {
	candidateUTC := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	storeHours := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Monday: {{From: "09:00", To: "18:00"}},
	})

	facilities := []Facility{
		{ID: 1, Name: "Room A"},
		{ID: 2, Name: "Room B"},
	}

	policy := domain.DefaultPolicyConfig(1)
	policy.SingleServiceMode = true

	// Без бронирований доступны все открытые места
	available := FacilitiesAvailableAt(candidateUTC, facilities, storeHours, 8, nil, policy)
	assert.Len(t, available, 2)

	// Одно активное бронирование на любом месте закрывает слот целиком
	reservations := []*domain.Reservation{
		reservation(1, candidateUTC, 60, domain.StatusReady, ptr.Ptr(int64(2))),
	}
	available = FacilitiesAvailableAt(candidateUTC, facilities, storeHours, 8, reservations, policy)
	assert.Empty(t, available)
}
