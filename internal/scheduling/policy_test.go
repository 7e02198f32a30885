package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/storekit/STF-ReservationService/internal/domain"
)

func TestWithinAdvanceWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		candidate    time.Time
		beforeHours  int
		afterHours   int
		want         bool
	}{
		{
			name:        "inside window",
			candidate:   now.Add(5 * time.Hour),
			beforeHours: 2,
			afterHours:  72,
			want:        true,
		},
		{
			name:        "too soon",
			candidate:   now.Add(1 * time.Hour),
			beforeHours: 2,
			afterHours:  72,
			want:        false,
		},
		{
			name:        "exactly at lead boundary",
			candidate:   now.Add(2 * time.Hour),
			beforeHours: 2,
			afterHours:  72,
			want:        true,
		},
		{
			name:        "beyond horizon",
			candidate:   now.Add(73 * time.Hour),
			beforeHours: 2,
			afterHours:  72,
			want:        false,
		},
		{
			name:        "exactly at horizon",
			candidate:   now.Add(72 * time.Hour),
			beforeHours: 2,
			afterHours:  72,
			want:        true,
		},
		{
			name:        "zero horizon means unbounded",
			candidate:   now.Add(24 * 365 * time.Hour),
			beforeHours: 2,
			afterHours:  0,
			want:        true,
		},
		{
			name:        "candidate in the past",
			candidate:   now.Add(-time.Hour),
			beforeHours: 0,
			afterHours:  0,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinAdvanceWindow(now, tt.candidate, tt.beforeHours, tt.afterHours)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInCancelLockout(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// cancelHours=24: за 10 часов до начала - блокировка, за 25 - нет
	assert.True(t, InCancelLockout(now, now.Add(10*time.Hour), true, 24))
	assert.False(t, InCancelLockout(now, now.Add(25*time.Hour), true, 24))

	// Ровно на границе блокировки нет
	assert.False(t, InCancelLockout(now, now.Add(24*time.Hour), true, 24))

	// canCancel=false запрещает отмену в любой момент
	assert.True(t, InCancelLockout(now, now.Add(1000*time.Hour), false, 24))

	// cancelHours=0: отмена доступна вплоть до начала
	assert.False(t, InCancelLockout(now, now.Add(time.Minute), true, 0))
	assert.True(t, InCancelLockout(now, now.Add(-time.Minute), true, 0))
}

func TestCanMutate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	policy := domain.DefaultPolicyConfig(1)
	policy.CancelHours = 24

	mutable := &domain.Reservation{
		Status:          domain.StatusReady,
		StartTime:       now.Add(48 * time.Hour),
		DurationMinutes: 60,
	}
	assert.True(t, CanMutate(mutable, policy, now))

	// Внутри окна блокировки
	locked := &domain.Reservation{
		Status:          domain.StatusReady,
		StartTime:       now.Add(10 * time.Hour),
		DurationMinutes: 60,
	}
	assert.False(t, CanMutate(locked, policy, now))

	// Терминальные статусы немутабельны независимо от времени
	for _, status := range []domain.ReservationStatus{
		domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow,
	} {
		r := &domain.Reservation{
			Status:          status,
			StartTime:       now.Add(48 * time.Hour),
			DurationMinutes: 60,
		}
		assert.False(t, CanMutate(r, policy, now), "status %s", status)
	}
}

func TestWouldEnterLockoutIfMoved(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	policy := domain.DefaultPolicyConfig(1)
	policy.CancelHours = 24

	// Перенос на слот внутри окна блокировки требует подтверждения
	assert.True(t, WouldEnterLockoutIfMoved(now.Add(10*time.Hour), policy, now))
	assert.False(t, WouldEnterLockoutIfMoved(now.Add(48*time.Hour), policy, now))

	// При canCancel=false предупреждение не выдается
	policy.CanCancel = false
	assert.False(t, WouldEnterLockoutIfMoved(now.Add(10*time.Hour), policy, now))
}
