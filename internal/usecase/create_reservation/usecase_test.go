package create_reservation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/STF-ReservationService/internal/domain"
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
	"friday":    [{"from": "09:00", "to": "18:00"}]
}`

type fakeReservationRepo struct {
	dayWindow []*domain.Reservation
	created   *domain.Reservation
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	stored := *res
	stored.ID = 555
	stored.CreatedAt = testNow
	stored.UpdatedAt = testNow
	f.created = &stored
	return &stored, nil
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
		CanReserveBefore:       1,
		CanReserveAfter:        24 * 30,
		DefaultDurationMinutes: 60,
	}
}

func testStore() *storeservice.Store {
	return &storeservice.Store{
		ID:            1,
		Timezone:      "Asia/Taipei",
		BusinessHours: json.RawMessage(testHoursJSON),
	}
}

func newTestUseCase(repo *fakeReservationRepo, policy *fakePolicyRepo, client *fakeStoreClient) *UseCase {
	uc := NewUseCase(repo, policy, client, inlineTxManager{}, nopLogger{})
	uc.timeProvider = fixedClock{t: testNow}
	return uc
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{}
	client := &fakeStoreClient{
		store: testStore(),
		facilities: []storeservice.Facility{
			{ID: 5, StoreID: 1, Name: "Room A", DurationMinutes: ptr.Ptr(90)},
		},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, client)

	// Вторник 14:00 локального = 06:00 UTC
	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		StoreID:    1,
		FacilityID: ptr.Ptr(int64(5)),
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(555), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC), resp.StartUTC)
	// Длительность места переопределяет дефолт магазина
	assert.Equal(t, 90, resp.DurationMinutes)
	require.NotNil(t, resp.FacilityName)
	assert.Equal(t, "Room A", *resp.FacilityName)

	require.NotNil(t, repo.created)
	assert.Equal(t, domain.StatusPending, repo.created.Status)
}

func TestExecute_AnonymousReservation(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:       0,
		StoreID:      1,
		Date:         time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:    "14:00",
		ContactName:  ptr.Ptr("Lin Mei"),
		ContactPhone: ptr.Ptr("+886-912-345-678"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.UserID)
	require.NotNil(t, repo.created.ContactName)
	assert.Equal(t, "Lin Mei", *repo.created.ContactName)
}

func TestExecute_OutsideAdvanceWindow(t *testing.T) {
	policy := testPolicy()
	policy.CanReserveBefore = 12

	repo := &fakeReservationRepo{}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: policy}, &fakeStoreClient{store: testStore()})

	// Понедельник 10:00 локального = 02:00 UTC, всего через 2 часа
	_, err := uc.Execute(context.Background(), &Request{
		UserID:    100,
		StoreID:   1,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrAdvanceWindow)
	assert.Nil(t, repo.created)
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:    100,
		StoreID:   1,
		Date:      time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "20:00",
	})
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
}

func TestExecute_SlotConflict(t *testing.T) {
	repo := &fakeReservationRepo{
		dayWindow: []*domain.Reservation{
			{
				ID:              2,
				StoreID:         1,
				UserID:          200,
				StartTime:       time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC),
				DurationMinutes: 60,
				Status:          domain.StatusReady,
				FacilityID:      ptr.Ptr(int64(5)),
			},
		},
	}
	client := &fakeStoreClient{
		store:      testStore(),
		facilities: []storeservice.Facility{{ID: 5, StoreID: 1, Name: "Room A"}},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, client)

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		StoreID:    1,
		FacilityID: ptr.Ptr(int64(5)),
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, repo.created)

	// Отмененное бронирование слот не занимает
	repo.dayWindow[0].Status = domain.StatusCancelled
	_, err = uc.Execute(context.Background(), &Request{
		UserID:     100,
		StoreID:    1,
		FacilityID: ptr.Ptr(int64(5)),
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
	})
	assert.NoError(t, err)
}

func TestExecute_PreviousDayTailConflict(t *testing.T) {
	// Круглосуточные часы, чтобы дойти до проверки конфликта ночью
	nightStore := testStore()
	nightStore.BusinessHours = json.RawMessage(`{
		"monday":  [{"from": "00:00", "to": "24:00"}],
		"tuesday": [{"from": "00:00", "to": "24:00"}]
	}`)

	// Бронирование понедельника 23:00 локального на 480 минут
	// заканчивается во вторник 07:00
	repo := &fakeReservationRepo{
		dayWindow: []*domain.Reservation{
			{
				ID:              2,
				StoreID:         1,
				UserID:          200,
				StartTime:       time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
				DurationMinutes: 480,
				Status:          domain.StatusReady,
				FacilityID:      ptr.Ptr(int64(5)),
			},
		},
	}
	client := &fakeStoreClient{
		store:      nightStore,
		facilities: []storeservice.Facility{{ID: 5, StoreID: 1, Name: "Room A"}},
	}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: testPolicy()}, client)

	// Вторник 02:00 локального = понедельник 18:00 UTC, внутри хвоста
	_, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		StoreID:    1,
		FacilityID: ptr.Ptr(int64(5)),
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "02:00",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, repo.created)

	// Вторник 08:00 локального уже после хвоста
	_, err = uc.Execute(context.Background(), &Request{
		UserID:     100,
		StoreID:    1,
		FacilityID: ptr.Ptr(int64(5)),
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "08:00",
	})
	assert.NoError(t, err)
}

func TestExecute_FacilityNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakePolicyRepo{policy: testPolicy()}, &fakeStoreClient{store: testStore()})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     100,
		StoreID:    1,
		FacilityID: ptr.Ptr(int64(99)),
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
	})
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestExecute_DefaultPolicyWhenMissing(t *testing.T) {
	// Политика не сохранена: действует дефолтная с рабочими часами магазина
	repo := &fakeReservationRepo{}
	uc := newTestUseCase(repo, &fakePolicyRepo{policy: nil}, &fakeStoreClient{store: testStore()})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:    100,
		StoreID:   1,
		Date:      time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.DurationMinutes)
}

func TestValidateRequest(t *testing.T) {
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{
			name: "valid",
			req:  &Request{UserID: 100, StoreID: 1, Date: date, StartTime: "14:00"},
		},
		{
			name:    "zero store id",
			req:     &Request{UserID: 100, Date: date, StartTime: "14:00"},
			wantErr: true,
		},
		{
			name:    "missing date",
			req:     &Request{UserID: 100, StoreID: 1, StartTime: "14:00"},
			wantErr: true,
		},
		{
			name:    "malformed time",
			req:     &Request{UserID: 100, StoreID: 1, Date: date, StartTime: "14:5"},
			wantErr: true,
		},
		{
			name: "facility and staff together",
			req: &Request{
				UserID: 100, StoreID: 1, Date: date, StartTime: "14:00",
				FacilityID: ptr.Ptr(int64(1)), StaffID: ptr.Ptr(int64(2)),
			},
			wantErr: true,
		},
		{
			name:    "anonymous without contact",
			req:     &Request{StoreID: 1, Date: date, StartTime: "14:00"},
			wantErr: true,
		},
		{
			name: "anonymous with contact",
			req: &Request{
				StoreID: 1, Date: date, StartTime: "14:00",
				ContactName: ptr.Ptr("Lin Mei"), ContactPhone: ptr.Ptr("+886-912-345-678"),
			},
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
