package reschedule_reservation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/STF-ReservationService/internal/domain"
	reservationRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/reservation"
	"github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
	"github.com/storekit/STF-ReservationService/pkg/ptr"
)

// Понедельник 2026-03-02 00:00 UTC, магазин в UTC+8
var testNow = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

const testHoursJSON = `{
	"monday":    [{"from": "09:00", "to": "18:00"}],
	"tuesday":   [{"from": "09:00", "to": "18:00"}],
	"wednesday": [{"from": "09:00", "to": "18:00"}],
	"thursday":  [{"from": "09:00", "to": "18:00"}],
	"friday":    [{"from": "09:00", "to": "18:00"}],
	"saturday":  [{"from": "09:00", "to": "18:00"}],
	"sunday":    [{"from": "09:00", "to": "18:00"}]
}`

type fakeReservationRepo struct {
	reservations map[int64]*domain.Reservation
	dayWindow    []*domain.Reservation

	updateCalled bool
	updatedID    int64
	updatedStart time.Time
	updateErr    error
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeReservationRepo) GetByStoreWithFilter(_ context.Context, filter domain.StoreReservationsFilter) ([]*domain.Reservation, error) {
	// Фильтр по start_time действует как в репозитории: [StartDate, EndDate)
	out := make([]*domain.Reservation, 0, len(f.dayWindow))
	for _, r := range f.dayWindow {
		if filter.StartDate != nil && r.StartTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !r.StartTime.Before(*filter.EndDate) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateSchedule(_ context.Context, id int64, newStartUTC time.Time) error {
	f.updateCalled = true
	f.updatedID = id
	f.updatedStart = newStartUTC
	return f.updateErr
}

type fakePolicyRepo struct {
	policy *domain.PolicyConfig
	err    error
}

func (f *fakePolicyRepo) GetByStoreID(_ context.Context, _ int64) (*domain.PolicyConfig, error) {
	return f.policy, f.err
}

type fakeStoreClient struct {
	store      *storeservice.Store
	storeErr   error
	facilities []storeservice.Facility
	staff      []storeservice.Staff
}

func (f *fakeStoreClient) GetStore(_ context.Context, _ int64) (*storeservice.Store, error) {
	return f.store, f.storeErr
}

func (f *fakeStoreClient) GetFacilities(_ context.Context, _ int64) ([]storeservice.Facility, error) {
	return f.facilities, nil
}

func (f *fakeStoreClient) GetStaff(_ context.Context, _ int64) ([]storeservice.Staff, error) {
	return f.staff, nil
}

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testPolicy() *domain.PolicyConfig {
	return &domain.PolicyConfig{
		StoreID:                1,
		UseBusinessHours:       true,
		CanCancel:              true,
		CancelHours:            24,
		DefaultDurationMinutes: 60,
	}
}

func testStore() *storeservice.Store {
	return &storeservice.Store{
		ID:            1,
		Timezone:      "Asia/Taipei",
		ManagerIDs:    []int64{900},
		BusinessHours: json.RawMessage(testHoursJSON),
	}
}

func testReservation(startUTC time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		StoreID:         1,
		UserID:          100,
		StartTime:       startUTC,
		DurationMinutes: 60,
		Status:          domain.StatusReady,
		FacilityID:      ptr.Ptr(int64(5)),
	}
}

func newTestUseCase(repo *fakeReservationRepo, policy *fakePolicyRepo, client *fakeStoreClient) *UseCase {
	uc := NewUseCase(repo, policy, client, inlineTxManager{}, nopLogger{})
	uc.timeProvider = fixedClock{t: testNow}
	return uc
}

func TestExecute_Committed(t *testing.T) {
	// Текущее начало: среда 14:00 локального (+54ч от now)
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	// Перенос на четверг 14:00 локального = 06:00 UTC, далеко за окном блокировки
	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCommitted, resp.Status)
	assert.Equal(t, time.Date(2026, 3, 5, 6, 0, 0, 0, time.UTC), resp.NewStartUTC)
	assert.Equal(t, time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC), resp.OldStartUTC)
	assert.Empty(t, resp.Warning)

	require.True(t, repo.updateCalled)
	assert.Equal(t, int64(1), repo.updatedID)
	assert.Equal(t, resp.NewStartUTC, repo.updatedStart)
}

func TestExecute_PersistenceFailure(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)),
		},
		updateErr: errors.New("pq: connection reset"),
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	req := &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	}

	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	// Слот не должен остаться захваченным после сбоя записи
	repo.updateErr = nil
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
}

func TestExecute_CurrentTimeLocked(t *testing.T) {
	// Бронирование начинается через 10 часов, окно блокировки 24 часа
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(testNow.Add(10 * time.Hour)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	assert.ErrorIs(t, err, ErrCurrentlyLocked)
	assert.False(t, repo.updateCalled)
}

func TestExecute_ManagerBypassesLockout(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(testNow.Add(10 * time.Hour)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        900, // менеджер магазина
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	// 08:00 локального, магазин открывается в 09:00
	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "08:00",
	})
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
	assert.False(t, repo.updateCalled)
}

func TestExecute_SlotConflict(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)),
		},
		dayWindow: []*domain.Reservation{
			// Чужое бронирование на том же месте в целевое время
			{
				ID:              2,
				StoreID:         1,
				UserID:          200,
				StartTime:       time.Date(2026, 3, 5, 6, 0, 0, 0, time.UTC),
				DurationMinutes: 60,
				Status:          domain.StatusReady,
				FacilityID:      ptr.Ptr(int64(5)),
			},
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, repo.updateCalled)
}

func TestExecute_PreviousDayTailConflict(t *testing.T) {
	// Круглосуточные часы, чтобы дойти до проверки конфликта ночью
	nightStore := testStore()
	nightStore.BusinessHours = json.RawMessage(`{
		"wednesday": [{"from": "00:00", "to": "24:00"}],
		"thursday":  [{"from": "00:00", "to": "24:00"}]
	}`)

	// Соседнее бронирование среды 23:00 локального на 480 минут
	// заканчивается в четверг 07:00
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)),
		},
		dayWindow: []*domain.Reservation{
			{
				ID:              2,
				StoreID:         1,
				UserID:          200,
				StartTime:       time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC),
				DurationMinutes: 480,
				Status:          domain.StatusReady,
				FacilityID:      ptr.Ptr(int64(5)),
			},
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: nightStore})

	// Четверг 02:00 локального = среда 18:00 UTC, внутри хвоста
	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "02:00",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, repo.updateCalled)
}

func TestExecute_NeighborDurationFromReservation(t *testing.T) {
	// У соседнего бронирования переопределенная длительность 120 минут:
	// 14:00-16:00 локального. Перенос на 15:00 пересекается с его хвостом,
	// хотя дефолтная длительность магазина закончилась бы в 15:00
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(time.Date(2026, 3, 4, 6, 0, 0, 0, time.UTC)),
		},
		dayWindow: []*domain.Reservation{
			{
				ID:              2,
				StoreID:         1,
				UserID:          200,
				StartTime:       time.Date(2026, 3, 5, 6, 0, 0, 0, time.UTC),
				DurationMinutes: 120,
				Status:          domain.StatusReady,
				FacilityID:      ptr.Ptr(int64(5)),
			},
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "15:00",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, repo.updateCalled)
}

func TestExecute_SelfExcludedFromConflictCheck(t *testing.T) {
	// Перенос на полчаса вперед пересекает собственный старый слот,
	// но собственное бронирование конфликтом не считается
	current := testReservation(time.Date(2026, 3, 5, 6, 0, 0, 0, time.UTC))
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{1: current},
		dayWindow:    []*domain.Reservation{current},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:30",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
	assert.Equal(t, time.Date(2026, 3, 5, 6, 30, 0, 0, time.UTC), repo.updatedStart)
}

func TestExecute_AwaitingConfirmationThenCommit(t *testing.T) {
	policy := testPolicy()
	policy.CancelHours = 48

	// Текущее начало далеко за окном блокировки, новое - внутри него:
	// вторник 14:00 локального = 06:00 UTC, через 30 часов от now
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(testNow.Add(100 * time.Hour)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: policy}, &fakeStoreClient{store: testStore()})

	req := &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	}

	// Первая попытка: фиксации нет, требуется подтверждение
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingConfirmation, resp.Status)
	assert.NotEmpty(t, resp.Warning)
	assert.False(t, repo.updateCalled)

	// Повторный запрос с согласием фиксирует перенос
	req.Confirmed = true
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
	assert.True(t, repo.updateCalled)
	assert.Equal(t, time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC), repo.updatedStart)
}

func TestExecute_Decline(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(testNow.Add(100 * time.Hour)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	// Отказ не требует нового времени и ничего не меняет
	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Decline:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, resp.Status)
	assert.Equal(t, testNow.Add(100*time.Hour), resp.OldStartUTC)
	assert.False(t, repo.updateCalled)
}

func TestExecute_ConcurrentAttemptRejected(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(testNow.Add(100 * time.Hour)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	// Имитируем активную попытку для того же бронирования
	require.True(t, uc.acquire(1))
	defer uc.release(1)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	assert.ErrorIs(t, err, ErrRescheduleInProgress)

	// Другое бронирование не затронуто блокировкой
	assert.True(t, uc.acquire(2))
	uc.release(2)
}

func TestExecute_ImmutableStatus(t *testing.T) {
	res := testReservation(testNow.Add(100 * time.Hour))
	res.Status = domain.StatusCancelled
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{1: res},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_AccessDenied(t *testing.T) {
	repo := &fakeReservationRepo{
		reservations: map[int64]*domain.Reservation{
			1: testReservation(testNow.Add(100 * time.Hour)),
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 1,
		UserID:        777, // не владелец и не менеджер
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeReservationRepo{reservations: map[int64]*domain.Reservation{}}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42,
		UserID:        100,
		Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:00",
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{
			name: "valid",
			req: &Request{
				ReservationID: 1,
				Date:          time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
				StartTime:     "14:00",
			},
		},
		{
			name:    "zero reservation id",
			req:     &Request{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), StartTime: "14:00"},
			wantErr: true,
		},
		{
			name:    "confirmed and decline together",
			req:     &Request{ReservationID: 1, Confirmed: true, Decline: true},
			wantErr: true,
		},
		{
			name: "decline needs no date",
			req:  &Request{ReservationID: 1, Decline: true},
		},
		{
			name:    "missing date",
			req:     &Request{ReservationID: 1, StartTime: "14:00"},
			wantErr: true,
		},
		{
			name:    "malformed time",
			req:     &Request{ReservationID: 1, Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), StartTime: "9:00"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
