package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

var workDay = shared.NewTimeWindow(shared.MustTimeOfDay(8, 0), shared.MustTimeOfDay(17, 0))

func TestSimulationClock_AdvanceTime(t *testing.T) {
	// Arrange
	clock := shared.NewSimulationClock(at(8, 0), workDay)

	// Act
	clock.AdvanceTime(90 * time.Minute)

	// Assert
	assert.Equal(t, at(9, 30), clock.Now())
}

func TestSimulationClock_NeverMovesBackwards(t *testing.T) {
	// Arrange
	clock := shared.NewSimulationClock(at(8, 0), workDay)

	// Act
	clock.AdvanceTime(-time.Hour)
	clock.AdvanceTime(0)

	// Assert
	assert.Equal(t, at(8, 0), clock.Now())
}

func TestSimulationClock_SleepAdvancesWithoutBlocking(t *testing.T) {
	// Arrange
	clock := shared.NewSimulationClock(at(8, 0), workDay)
	started := time.Now()

	// Act
	clock.Sleep(10 * time.Hour)

	// Assert
	assert.Equal(t, at(18, 0), clock.Now())
	assert.Less(t, time.Since(started), time.Second)
}

func TestSimulationClock_WorkingHours(t *testing.T) {
	// Arrange
	clock := shared.NewSimulationClock(at(7, 0), workDay)

	// Assert
	assert.False(t, clock.IsWorkingHours())
	clock.AdvanceTime(time.Hour)
	assert.True(t, clock.IsWorkingHours())
	clock.AdvanceTime(9 * time.Hour)
	assert.False(t, clock.IsWorkingHours(), "17:00 is outside [08:00, 17:00)")
	assert.Equal(t, workDay, clock.WorkDay())
}

func TestSimulationClock_RunningFlagIsInformational(t *testing.T) {
	// Arrange
	clock := shared.NewSimulationClock(at(8, 0), workDay)

	// Act & Assert
	assert.False(t, clock.IsRunning())
	clock.Start()
	assert.True(t, clock.IsRunning())
	clock.Stop()
	assert.False(t, clock.IsRunning())
	clock.AdvanceTime(time.Minute)
	assert.Equal(t, at(8, 1), clock.Now())
}
