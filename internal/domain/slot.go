package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Slot represents a fixed time interval of a form with a finite seat capacity
type Slot struct {
	ID             int64
	FormID         int64
	StartingAt     time.Time
	EndingAt       time.Time
	MaxCapacity    int
	ConfirmedSeats int
	IsOpen         bool
	IsSpecific     bool // slot was edited individually and no longer follows the week definition
}

// RemainingPlaces returns the number of seats a new visitor can ultimately book
func (s *Slot) RemainingPlaces() int {
	remaining := s.MaxCapacity - s.ConfirmedSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull returns true if every seat of the slot is confirmed
func (s *Slot) IsFull() bool {
	return s.RemainingPlaces() == 0
}

// Date returns the calendar date of the slot start (midnight in the slot location)
func (s *Slot) Date() time.Time {
	return DateOf(s.StartingAt)
}

// StartTime returns the time of day at which the slot starts
func (s *Slot) StartTime() types.TimeString {
	return types.NewTimeString(s.StartingAt)
}

// EndTime returns the time of day at which the slot ends
func (s *Slot) EndTime() types.TimeString {
	return types.NewTimeString(s.EndingAt)
}

// Weekday returns the day of week of the slot start
func (s *Slot) Weekday() time.Weekday {
	return s.StartingAt.Weekday()
}

// SlotAvailability snapshot of the capacity counters of a slot
type SlotAvailability struct {
	SlotID                   int64
	MaxCapacity              int
	ConfirmedSeats           int
	PotentialHeldSeats       int
	RemainingPlaces          int
	PotentialRemainingPlaces int
}

// DateOf truncates t to midnight keeping its location
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b (negative if b is before a)
func DaysBetween(a, b time.Time) int {
	da := DateOf(a)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, a.Location())
	// Деление часов устойчиво к переходу на летнее время
	return int(db.Sub(da).Round(24*time.Hour) / (24 * time.Hour))
}
