package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WeekSchedule represents the typical week of a form: open days, daily bounds and slot duration
type WeekSchedule struct {
	FormID              int64
	OpenDays            []time.Weekday
	TimeStart           types.TimeString
	TimeEnd             types.TimeString
	SlotDurationMinutes int
	WorkingDays         []WorkingDay // detailed definition, may be empty
}

// IsOpenOn returns true if the schedule opens on the given weekday
func (w *WeekSchedule) IsOpenOn(day time.Weekday) bool {
	for _, d := range w.OpenDays {
		if d == day {
			return true
		}
	}
	return false
}

// WorkingDayFor returns the detailed definition of the given weekday
func (w *WeekSchedule) WorkingDayFor(day time.Weekday) (*WorkingDay, bool) {
	for i := range w.WorkingDays {
		if w.WorkingDays[i].Weekday == day {
			return &w.WorkingDays[i], true
		}
	}
	return nil, false
}

// WorkingDay represents the time slots of one weekday
type WorkingDay struct {
	Weekday   time.Weekday
	TimeSlots []TimeSlotDefinition
}

// TimeSlotDefinition represents a time slot of a working day before it is materialized into slots
type TimeSlotDefinition struct {
	ID          int64
	Weekday     time.Weekday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsOpen      bool
	MaxCapacity int
}

// Matches returns true if the slot starts and ends exactly at the bounds of the definition
func (t *TimeSlotDefinition) Matches(slot *Slot) bool {
	return slot.StartTime() == t.StartTime && slot.EndTime() == t.EndTime
}
