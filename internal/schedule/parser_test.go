package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/STF-ReservationService/internal/domain"
)

type warnRecorder struct {
	messages []string
}

func (w *warnRecorder) Warn(format string, v ...interface{}) {
	w.messages = append(w.messages, format)
}

func TestParse_FullDocument(t *testing.T) {
	doc := `{
		"timeZone": "Asia/Taipei",
		"monday":   [{"from": "09:00", "to": "18:00"}],
		"tuesday":  "closed",
		"saturday": [{"from": "13:00", "to": "24:00"}, {"from": "09:00", "to": "12:00"}],
		"holidays": ["2026-01-01"]
	}`

	s, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Asia/Taipei", s.TimeZone)

	monday := s.HoursFor(time.Monday)
	require.Len(t, monday.Ranges, 1)
	assert.Equal(t, domain.TimeRange{From: "09:00", To: "18:00"}, monday.Ranges[0])

	assert.True(t, s.HoursFor(time.Tuesday).Closed)

	// Отсутствующий день - закрыт
	assert.True(t, s.HoursFor(time.Wednesday).Closed)

	// Диапазоны сортируются по from
	saturday := s.HoursFor(time.Saturday)
	require.Len(t, saturday.Ranges, 2)
	assert.Equal(t, domain.TimeRange{From: "09:00", To: "12:00"}, saturday.Ranges[0])
	assert.Equal(t, domain.TimeRange{From: "13:00", To: "24:00"}, saturday.Ranges[1])

	assert.True(t, s.IsHoliday(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed json", doc: `{"monday": [`},
		{name: "unknown sentinel", doc: `{"monday": "open"}`},
		{name: "bad time format", doc: `{"monday": [{"from": "9am", "to": "18:00"}]}`},
		{name: "from equals to", doc: `{"monday": [{"from": "10:00", "to": "10:00"}]}`},
		{name: "midnight spanning range", doc: `{"monday": [{"from": "22:00", "to": "02:00"}]}`},
		{name: "range starting at 24:00", doc: `{"monday": [{"from": "24:00", "to": "24:00"}]}`},
		{name: "overlapping ranges", doc: `{"monday": [{"from": "09:00", "to": "13:00"}, {"from": "12:00", "to": "18:00"}]}`},
		{name: "bad holiday date", doc: `{"holidays": ["01.01.2026"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParse_TouchingRangesAllowed(t *testing.T) {
	doc := `{"monday": [{"from": "09:00", "to": "13:00"}, {"from": "13:00", "to": "18:00"}]}`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, s.HoursFor(time.Monday).Ranges, 2)
}

func TestParseOrDefault_FallsBack(t *testing.T) {
	log := &warnRecorder{}

	// Битый документ → дефолтное расписание, с предупреждением
	s := ParseOrDefault([]byte(`{broken`), log)
	require.Len(t, log.messages, 1)
	monday := s.HoursFor(time.Monday)
	require.Len(t, monday.Ranges, 1)
	assert.Equal(t, domain.TimeRange{From: "08:00", To: "22:00"}, monday.Ranges[0])

	// Документ без единого открытого диапазона - тоже fallback
	s = ParseOrDefault([]byte(`{"monday": "closed"}`), log)
	assert.Len(t, log.messages, 2)
	assert.False(t, s.HoursFor(time.Sunday).Closed)

	// Валидный документ проходит как есть
	s = ParseOrDefault([]byte(`{"monday": [{"from": "10:00", "to": "12:00"}]}`), log)
	assert.Len(t, log.messages, 2)
	assert.True(t, s.HoursFor(time.Tuesday).Closed)
}

func TestIsOpenAt(t *testing.T) {
	s, err := Parse([]byte(`{
		"monday":   [{"from": "09:00", "to": "18:00"}],
		"holidays": ["2026-03-09"]
	}`))
	require.NoError(t, err)

	const offset = 8 // UTC+8

	// Понедельник 2026-03-02, 10:00 локального = 02:00 UTC
	assert.True(t, IsOpenAt(s, time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC), offset))

	// Ровно на открытии - открыто, полуинтервал [from, to)
	assert.True(t, IsOpenAt(s, time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC), offset))

	// Ровно на закрытии 18:00 локального - уже закрыто
	assert.False(t, IsOpenAt(s, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), offset))

	// Вторник закрыт (отсутствует в документе)
	assert.False(t, IsOpenAt(s, time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC), offset))

	// Праздничный понедельник 2026-03-09 закрыт целиком
	assert.False(t, IsOpenAt(s, time.Date(2026, 3, 9, 2, 0, 0, 0, time.UTC), offset))
}

func TestDistinctOpenHours(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []int
	}{
		// Час, содержащий to с ненулевыми минутами, включается;
		// to ровно на границе часа - нет
		{name: "half hour range", doc: `{"monday": [{"from": "13:00", "to": "13:30"}]}`, want: []int{13}},
		{name: "to on the hour", doc: `{"monday": [{"from": "13:00", "to": "14:00"}]}`, want: []int{13}},
		{name: "to past the hour", doc: `{"monday": [{"from": "13:00", "to": "14:30"}]}`, want: []int{13, 14}},
		{name: "two ranges", doc: `{"monday": [{"from": "09:00", "to": "12:00"}, {"from": "14:00", "to": "16:00"}]}`,
			want: []int{9, 10, 11, 14, 15}},
		{name: "until end of day", doc: `{"monday": [{"from": "22:00", "to": "24:00"}]}`, want: []int{22, 23}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, DistinctOpenHours(s, time.Monday))
		})
	}

	// Закрытый день - nil
	s, err := Parse([]byte(`{"monday": "closed"}`))
	require.NoError(t, err)
	assert.Nil(t, DistinctOpenHours(s, time.Monday))
}
