package handlers

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeSlotDTO определение временного слота рабочего дня; weekday 0 = воскресенье
type TimeSlotDTO struct {
	ID          int64  `json:"id,omitempty"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsOpen      bool   `json:"isOpen"`
	MaxCapacity int    `json:"maxCapacity"`
}

// WorkingDayDTO временные слоты одного дня недели
type WorkingDayDTO struct {
	Weekday   int           `json:"weekday"`
	TimeSlots []TimeSlotDTO `json:"timeSlots"`
}

// ParseWeekday проверяет номер дня недели (0..6)
func ParseWeekday(day int) (time.Weekday, error) {
	if day < int(time.Sunday) || day > int(time.Saturday) {
		return 0, fmt.Errorf("invalid weekday %d", day)
	}
	return time.Weekday(day), nil
}

// ToDomain конвертирует определение слота
func (t TimeSlotDTO) ToDomain() (domain.TimeSlotDefinition, error) {
	day, err := ParseWeekday(t.Weekday)
	if err != nil {
		return domain.TimeSlotDefinition{}, err
	}
	start, err := types.NewTimeStringFromString(t.StartTime)
	if err != nil {
		return domain.TimeSlotDefinition{}, err
	}
	end, err := types.NewTimeStringFromString(t.EndTime)
	if err != nil {
		return domain.TimeSlotDefinition{}, err
	}
	return domain.TimeSlotDefinition{
		ID:          t.ID,
		Weekday:     day,
		StartTime:   start,
		EndTime:     end,
		IsOpen:      t.IsOpen,
		MaxCapacity: t.MaxCapacity,
	}, nil
}

// ToDomain конвертирует рабочий день; день слота берётся из дня недели
func (d WorkingDayDTO) ToDomain() (domain.WorkingDay, error) {
	day, err := ParseWeekday(d.Weekday)
	if err != nil {
		return domain.WorkingDay{}, err
	}
	out := domain.WorkingDay{Weekday: day, TimeSlots: make([]domain.TimeSlotDefinition, 0, len(d.TimeSlots))}
	for _, ts := range d.TimeSlots {
		ts.Weekday = d.Weekday
		def, err := ts.ToDomain()
		if err != nil {
			return domain.WorkingDay{}, err
		}
		out.TimeSlots = append(out.TimeSlots, def)
	}
	return out, nil
}
