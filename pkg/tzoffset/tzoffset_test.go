package tzoffset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetHours(t *testing.T) {
	offset, err := OffsetHours("Asia/Taipei")
	require.NoError(t, err)
	assert.Equal(t, 8, offset)

	offset, err = OffsetHours("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, -5, offset)

	_, err = OffsetHours("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestOffsetHoursOrDefault(t *testing.T) {
	offset, known := OffsetHoursOrDefault("Europe/Berlin")
	assert.True(t, known)
	assert.Equal(t, 1, offset)

	offset, known = OffsetHoursOrDefault("Nowhere/Unknown")
	assert.False(t, known)
	assert.Equal(t, DefaultOffsetHours, offset)
}

func TestRoundTrip(t *testing.T) {
	// ToUTC(ToLocal(x, o), o) == x для любого x и любого смещения
	instants := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 12, 30, 45, 0, time.UTC),
	}

	for _, x := range instants {
		for o := -12; o <= 14; o++ {
			assert.True(t, ToUTC(ToLocal(x, o), o).Equal(x),
				"round trip failed for %s offset %d", x, o)
		}
	}
}

func TestToLocal(t *testing.T) {
	utc := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	// UTC+8: 18:00 UTC = 02:00 следующего дня
	local := ToLocal(utc, 8)
	assert.Equal(t, 2, local.Hour())
	assert.Equal(t, 11, local.Day())

	// UTC-5: 18:00 UTC = 13:00 того же дня
	local = ToLocal(utc, -5)
	assert.Equal(t, 13, local.Hour())
	assert.Equal(t, 10, local.Day())
}

func TestCombineDayAndSlot(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// 10:00 локального времени UTC+8 = 02:00 UTC того же дня
	got, err := CombineDayAndSlot(day, "10:00", 8)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC), got)

	// 01:00 локального времени UTC+8 = 17:00 UTC предыдущего дня
	got, err = CombineDayAndSlot(day, "01:00", 8)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC), got)

	_, err = CombineDayAndSlot(day, "bad", 8)
	assert.Error(t, err)
}
