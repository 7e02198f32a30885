package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/STF-ReservationService/internal/domain"
	"github.com/storekit/STF-ReservationService/pkg/types"
)

func weeklySchedule(days map[time.Weekday][]domain.TimeRange, holidays ...string) *domain.WeeklySchedule {
	s := &domain.WeeklySchedule{
		Days:     make(map[time.Weekday]domain.DayHours, len(days)),
		Holidays: make(map[string]struct{}),
	}
	for wd, ranges := range days {
		s.Days[wd] = domain.DayHours{Ranges: ranges}
	}
	for _, h := range holidays {
		s.Holidays[h] = struct{}{}
	}
	return s
}

func TestGenerateDailySlots_MondayNineToSix(t *testing.T) {
	s := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Monday: {{From: "09:00", To: "18:00"}},
	})

	slots := GenerateDailySlots(s, time.Monday, 60)
	require.Len(t, slots, 9)
	assert.Equal(t, types.TimeString("09:00"), slots[0])
	assert.Equal(t, types.TimeString("17:00"), slots[8])

	// Вторник отсутствует в расписании - слотов нет
	assert.Nil(t, GenerateDailySlots(s, time.Tuesday, 60))
}

func TestGenerateDailySlots_SlotMustFitFully(t *testing.T) {
	s := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Monday: {{From: "09:00", To: "10:30"}},
	})

	// 60-минутный слот 10:00-11:00 не помещается в диапазон до 10:30
	slots := GenerateDailySlots(s, time.Monday, 60)
	assert.Equal(t, []types.TimeString{"09:00"}, slots)

	slots = GenerateDailySlots(s, time.Monday, 30)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, slots)
}

func TestGenerateDailySlots_MultipleRanges(t *testing.T) {
	s := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Friday: {
			{From: "09:00", To: "12:00"},
			{From: "14:00", To: "16:00"},
		},
	})

	slots := GenerateDailySlots(s, time.Friday, 60)
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00", "14:00", "15:00"}, slots)
}

func TestGenerateDailySlots_UntilEndOfDay(t *testing.T) {
	s := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Saturday: {{From: "22:00", To: "24:00"}},
	})

	slots := GenerateDailySlots(s, time.Saturday, 60)
	assert.Equal(t, []types.TimeString{"22:00", "23:00"}, slots)
}

func TestGenerateDailySlots_InvalidGranularity(t *testing.T) {
	s := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Monday: {{From: "09:00", To: "18:00"}},
	})

	assert.Nil(t, GenerateDailySlots(s, time.Monday, 0))
	assert.Nil(t, GenerateDailySlots(s, time.Monday, -15))
}

func TestGenerateWeekSlots_HolidaysEmpty(t *testing.T) {
	// Понедельник 2026-03-02; среда 2026-03-04 - праздник
	s := weeklySchedule(map[time.Weekday][]domain.TimeRange{
		time.Monday:    {{From: "09:00", To: "11:00"}},
		time.Wednesday: {{From: "09:00", To: "11:00"}},
	}, "2026-03-04")

	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	grid := GenerateWeekSlots(s, weekStart, 60)
	require.Len(t, grid, 7)

	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, grid[0].Slots)
	// Праздник: день присутствует в сетке, но слотов нет
	assert.Equal(t, weekStart.AddDate(0, 0, 2), grid[2].Day)
	assert.Empty(t, grid[2].Slots)
}
