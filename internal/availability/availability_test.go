package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func intPtr(n int) *int { return &n }

func settings(open, close string, step int, tables ...model.Table) model.Settings {
	return model.Settings{OpeningTime: open, ClosingTime: close, SlotDuration: step, Tables: tables}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, m)

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, 24*60, m)

	for _, bad := range []string{"", "1830", "25:00", "18:60", "ab:cd", "24:01", "24:59"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "09:05", FormatClock(9*60+5))
}

func TestGenerateSlotsHalfOpen(t *testing.T) {
	s := settings("18:00", "20:00", 30)
	assert.Equal(t, []string{"18:00", "18:30", "19:00", "19:30"}, GenerateSlots(s))

	s = settings("18:00", "23:00", 30)
	assert.Equal(t, []string{
		"18:00", "18:30", "19:00", "19:30", "20:00",
		"20:30", "21:00", "21:30", "22:00", "22:30",
	}, GenerateSlots(s))

	// closing not a multiple of the step: last slot still starts before closing
	s = settings("18:00", "19:10", 30)
	assert.Equal(t, []string{"18:00", "18:30", "19:00"}, GenerateSlots(s))

	assert.Empty(t, GenerateSlots(settings("20:00", "18:00", 30)))
	assert.Empty(t, GenerateSlots(settings("18:00", "18:00", 30)))
}

func TestGenerateSlotsRejectsBadInput(t *testing.T) {
	assert.Nil(t, GenerateSlots(settings("18:00", "20:00", 0)))
	assert.Nil(t, GenerateSlots(settings("18:00", "20:00", -15)))
	assert.Nil(t, GenerateSlots(settings("6pm", "20:00", 30)))
}

func TestAvailableSlotsCapacityFilter(t *testing.T) {
	s := settings("18:00", "20:00", 60,
		model.Table{ID: "a", Number: 1, Capacity: 2},
		model.Table{ID: "b", Number: 2, Capacity: 4},
	)
	assert.Equal(t, []string{"18:00", "19:00"}, AvailableSlots("2024-06-01", 4, s, nil))
	assert.Equal(t, []string{}, AvailableSlots("2024-06-01", 5, s, nil))
}

func TestAvailableSlotsClashExclusion(t *testing.T) {
	s := settings("18:00", "20:00", 60, model.Table{ID: "a", Number: 1, Capacity: 4})
	res := []model.Reservation{
		{Date: "2024-06-01", Time: "18:00", TableNumber: intPtr(1), Status: model.StatusConfirmed},
	}
	assert.Equal(t, []string{"19:00"}, AvailableSlots("2024-06-01", 2, s, res))

	// other dates do not block
	assert.Equal(t, []string{"18:00", "19:00"}, AvailableSlots("2024-06-02", 2, s, res))

	// cancelled reservations do not block
	res[0].Status = model.StatusCancelled
	assert.Equal(t, []string{"18:00", "19:00"}, AvailableSlots("2024-06-01", 2, s, res))
}

func TestAvailableSlotsIgnoresAvailabilityFlagAndUnassigned(t *testing.T) {
	s := settings("18:00", "19:00", 60, model.Table{ID: "a", Number: 1, Capacity: 4, IsAvailable: false})
	res := []model.Reservation{
		{Date: "2024-06-01", Time: "18:00", Status: model.StatusConfirmed},
	}
	assert.Equal(t, []string{"18:00"}, AvailableSlots("2024-06-01", 4, s, res))
}

func TestFreeTablesKeepsRegistryOrder(t *testing.T) {
	s := settings("18:00", "20:00", 60,
		model.Table{ID: "a", Number: 3, Capacity: 6},
		model.Table{ID: "b", Number: 1, Capacity: 4},
		model.Table{ID: "c", Number: 2, Capacity: 2},
	)
	res := []model.Reservation{
		{Date: "2024-06-01", Time: "18:00", TableNumber: intPtr(3), Status: model.StatusPending},
	}
	free := FreeTables("2024-06-01", "18:00", 3, s, res)
	require.Len(t, free, 1)
	assert.Equal(t, 1, free[0].Number)
}
