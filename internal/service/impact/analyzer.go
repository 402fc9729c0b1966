// Package impact определяет, затрагивает ли изменение расписания формы уже подтверждённые записи
package impact

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Report результат сравнения старого и нового расписания
type Report struct {
	RemovedDays       []time.Weekday
	DurationChanged   bool
	TimeWindowChanged bool
	ImpactedSlots     []*domain.Slot // слоты с записями, попавшие на закрытые дни
}

// Impacted возвращает true, если изменение нельзя применить без переноса записей
func (r *Report) Impacted() bool {
	return len(r.ImpactedSlots) > 0 || r.DurationChanged || r.TimeWindowChanged
}

// Analyze сравнивает расписания
// booked - слоты, на которых есть неотменённые записи
func Analyze(prev, next *domain.WeekSchedule, booked []*domain.Slot) *Report {
	report := &Report{
		RemovedDays:       RemovedDays(prev, next),
		DurationChanged:   prev.SlotDurationMinutes != next.SlotDurationMinutes,
		TimeWindowChanged: prev.TimeStart != next.TimeStart || prev.TimeEnd != next.TimeEnd,
	}

	if len(report.RemovedDays) == 0 {
		return report
	}

	removed := make(map[time.Weekday]struct{}, len(report.RemovedDays))
	for _, d := range report.RemovedDays {
		removed[d] = struct{}{}
	}
	for _, slot := range booked {
		if _, ok := removed[slot.Weekday()]; ok {
			report.ImpactedSlots = append(report.ImpactedSlots, slot)
		}
	}
	return report
}

// AppointmentsImpacted возвращает true, если запись попадает на удалённый день
// или изменилась длительность слота или границы рабочего дня
func AppointmentsImpacted(prev, next *domain.WeekSchedule, booked []*domain.Slot) bool {
	return Analyze(prev, next, booked).Impacted()
}

// RemovedDays дни, открытые в старом расписании и закрытые в новом
func RemovedDays(prev, next *domain.WeekSchedule) []time.Weekday {
	var removed []time.Weekday
	for _, d := range prev.OpenDays {
		if !next.IsOpenOn(d) {
			removed = append(removed, d)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed
}

// SlotsImpactedByTimeSlot слоты того же дня недели, затронутые изменением определения слота
// Без сдвига затронуты слоты с тем же началом, пересекающие начало определения
// или лежащие внутри него. Со сдвигом затронуто всё, что начинается не раньше начала определения,
// и слот, внутри которого это начало находится
func SlotsImpactedByTimeSlot(def domain.TimeSlotDefinition, slots []*domain.Slot, shift bool) []*domain.Slot {
	var impacted []*domain.Slot
	for _, slot := range slots {
		if slot.Weekday() != def.Weekday {
			continue
		}

		start, end := slot.StartTime(), slot.EndTime()
		straddles := start.IsBefore(def.StartTime) && end.IsAfter(def.StartTime)

		var hit bool
		if shift {
			hit = !start.IsBefore(def.StartTime) || straddles
		} else {
			hit = start == def.StartTime ||
				straddles ||
				(start.IsAfter(def.StartTime) && !end.IsAfter(def.EndTime))
		}
		if hit {
			impacted = append(impacted, slot)
		}
	}
	return impacted
}

// MismatchedSlots слоты, которым нет точного соответствия в рабочих днях:
// день недели не описан или ни одно определение не совпадает по началу и концу
func MismatchedSlots(slots []*domain.Slot, days []domain.WorkingDay) []*domain.Slot {
	byDay := make(map[time.Weekday]*domain.WorkingDay, len(days))
	for i := range days {
		byDay[days[i].Weekday] = &days[i]
	}

	var mismatched []*domain.Slot
	for _, slot := range slots {
		day, ok := byDay[slot.Weekday()]
		if !ok || !matchesAny(day.TimeSlots, slot) {
			mismatched = append(mismatched, slot)
		}
	}
	return mismatched
}

// SlotsMatchWorkingDays возвращает true, если каждый слот соответствует определению рабочего дня
func SlotsMatchWorkingDays(slots []*domain.Slot, days []domain.WorkingDay) bool {
	return len(MismatchedSlots(slots, days)) == 0
}

func matchesAny(defs []domain.TimeSlotDefinition, slot *domain.Slot) bool {
	for i := range defs {
		if defs[i].Matches(slot) {
			return true
		}
	}
	return false
}
