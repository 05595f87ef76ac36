package shared

import (
	"fmt"
	"sync"
	"time"
)

// Clock is an abstraction for time operations, allowing time to be mocked in tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks for the given duration
func (r *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// MockClock implements Clock with a controllable time for testing
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock starting at the given time.
// A zero start time falls back to the game epoch so tests stay reproducible.
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = GameEpoch
	}
	return &MockClock{CurrentTime: startTime}
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Sleep advances the mock clock without blocking
func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// GameEpoch is midnight of simulated day 1.
var GameEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	minutesPerHour = 60
	hoursPerDay    = 24
)

// GameClock is the simulated calendar driving the tick loop.
//
// The calendar is expressed as (day, hour, minute) and projected onto a
// time.Time from GameEpoch so that deadlines and event windows can be plain
// timestamps compared against Now().
type GameClock struct {
	mu     sync.RWMutex
	day    int
	hour   int
	minute int
}

// ClockSnapshot is the persisted form of a GameClock
type ClockSnapshot struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewGameClock creates a clock positioned at the given calendar slot.
// Out-of-range values are normalised (day < 1 becomes 1, hour and minute wrap).
func NewGameClock(day, hour, minute int) *GameClock {
	c := &GameClock{}
	c.set(day, hour, minute)
	return c
}

func (c *GameClock) set(day, hour, minute int) {
	if day < 1 {
		day = 1
	}
	if hour < 0 || hour >= hoursPerDay {
		hour = ((hour % hoursPerDay) + hoursPerDay) % hoursPerDay
	}
	if minute < 0 || minute >= minutesPerHour {
		minute = ((minute % minutesPerHour) + minutesPerHour) % minutesPerHour
	}
	c.day = day
	c.hour = hour
	c.minute = minute
}

// Now projects the calendar onto wall-clock time
func (c *GameClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return calendarTime(c.day, c.hour, c.minute)
}

// Sleep advances the calendar by whole minutes; sub-minute remainders are dropped
func (c *GameClock) Sleep(d time.Duration) {
	for i := 0; i < int(d/time.Minute); i++ {
		c.AdvanceMinute()
	}
}

// AdvanceMinute moves the calendar forward by one simulated minute.
// dayRolled is true when the advance crossed midnight.
func (c *GameClock) AdvanceMinute() (hour, minute int, dayRolled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.minute++
	if c.minute >= minutesPerHour {
		c.minute = 0
		c.hour++
		if c.hour >= hoursPerDay {
			c.hour = 0
			c.day++
			dayRolled = true
		}
	}
	return c.hour, c.minute, dayRolled
}

func (c *GameClock) Day() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.day
}

func (c *GameClock) Hour() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hour
}

func (c *GameClock) Minute() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minute
}

// Snapshot captures the calendar position
func (c *GameClock) Snapshot() ClockSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ClockSnapshot{Day: c.day, Hour: c.hour, Minute: c.minute}
}

// Restore repositions the calendar without emitting ticks
func (c *GameClock) Restore(s ClockSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(s.Day, s.Hour, s.Minute)
}

// String renders the calendar as "day N HH:MM"
func (s ClockSnapshot) String() string {
	return fmt.Sprintf("day %d %02d:%02d", s.Day, s.Hour, s.Minute)
}

func calendarTime(day, hour, minute int) time.Time {
	return GameEpoch.
		Add(time.Duration(day-1) * hoursPerDay * time.Hour).
		Add(time.Duration(hour) * time.Hour).
		Add(time.Duration(minute) * time.Minute)
}
