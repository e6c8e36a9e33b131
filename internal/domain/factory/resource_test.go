package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/factorysim/internal/domain/factory"
	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
}

func window(s string) shared.TimeWindow {
	w, err := shared.ParseTimeWindow(s)
	if err != nil {
		panic(err)
	}
	return w
}

func TestResourceSchedule_BusyLifecycle(t *testing.T) {
	// Arrange
	s := factory.NewResourceSchedule(nil)

	// Act
	s.SetBusy(90*time.Minute, at(9, 0))

	// Assert
	assert.True(t, s.IsBusy())
	assert.Equal(t, at(10, 30), *s.BusyUntil())
	assert.Equal(t, factory.ResourceStateBusy, s.State(at(9, 0)))

	assert.False(t, s.UpdateStatus(at(10, 29)), "still running one minute before the end")
	assert.True(t, s.IsBusy())

	assert.True(t, s.UpdateStatus(at(10, 30)), "frees exactly at busy-until")
	assert.False(t, s.IsBusy())
	assert.Nil(t, s.BusyUntil())
	assert.False(t, s.UpdateStatus(at(11, 0)), "only reports the transition once")
}

func TestResourceSchedule_BusyUntilIsACopy(t *testing.T) {
	// Arrange
	s := factory.NewResourceSchedule(nil)
	s.SetBusy(time.Hour, at(9, 0))

	// Act
	until := s.BusyUntil()
	*until = at(23, 0)

	// Assert
	assert.Equal(t, at(10, 0), *s.BusyUntil())
}

func TestResourceSchedule_Label(t *testing.T) {
	// Arrange
	s := factory.NewResourceSchedule([]shared.TimeWindow{window("12:00-12:30")})

	// Assert
	assert.Equal(t, factory.IdleLabel, s.Label(at(9, 0)))
	assert.Equal(t, factory.OnBreakLabel, s.Label(at(12, 15)))

	s.SetBusy(45*time.Minute, at(9, 0))
	assert.Equal(t, "Busy (45m left)", s.Label(at(9, 0)))
	assert.Equal(t, "Busy (1m left)", s.Label(at(9, 44).Add(30*time.Second)), "partial minutes round up")
}

func TestResourceSchedule_BusyWinsOverBreak(t *testing.T) {
	// Arrange
	s := factory.NewResourceSchedule([]shared.TimeWindow{window("12:00-12:30")})
	s.SetBusy(time.Hour, at(11, 45))

	// Assert
	assert.Equal(t, factory.ResourceStateBusy, s.State(at(12, 10)))
	assert.True(t, s.IsOnBreak(at(12, 10)))
}
