package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Seed начальные данные для драйвера memory
type Seed struct {
	Categories []SeedCategory `toml:"categories"`
	Forms      []SeedForm     `toml:"forms"`
}

// SeedCategory категория форм
type SeedCategory struct {
	ID                     int64  `toml:"id"`
	Name                   string `toml:"name"`
	MaxAppointmentsPerUser int    `toml:"max_appointments_per_user"`
}

// SeedForm форма с правилами и недельным расписанием
type SeedForm struct {
	ID                         int64  `toml:"id"`
	CategoryID                 int64  `toml:"category_id"` // 0 = без категории
	EnableMandatoryEmail       bool   `toml:"enable_mandatory_email"`
	MinDaysBetweenAppointments int    `toml:"min_days_between_appointments"`
	MaxAppointmentsPerPeriod   int    `toml:"max_appointments_per_period"`
	PeriodDays                 int    `toml:"period_days"`
	MaxPeoplePerAppointment    int    `toml:"max_people_per_appointment"`
	MaxCapacityPerSlot         int    `toml:"max_capacity_per_slot"`
	HoldTimeoutSeconds         int    `toml:"hold_timeout_seconds"`
	OpenDays                   []int  `toml:"open_days"` // 0 = воскресенье
	TimeStart                  string `toml:"time_start"`
	TimeEnd                    string `toml:"time_end"`
	SlotDurationMinutes        int    `toml:"slot_duration_minutes"`
	GenerateDays               int    `toml:"generate_days"` // на сколько дней вперёд материализовать слоты
}

// LoadSeed читает TOML файл и наполняет хранилище, материализуя слоты начиная с from
func (s *Store) LoadSeed(ctx context.Context, path string, from time.Time) error {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return fmt.Errorf("memory: decode seed %s: %w", path, err)
	}
	return s.ApplySeed(ctx, seed, from)
}

// ApplySeed наполняет хранилище
func (s *Store) ApplySeed(ctx context.Context, seed Seed, from time.Time) error {
	rules := s.Rules()
	for _, c := range seed.Categories {
		rules.PutCategory(domain.Category{ID: c.ID, Name: c.Name, MaxAppointmentsPerUser: c.MaxAppointmentsPerUser})
	}

	for _, f := range seed.Forms {
		formRules := domain.FormRules{
			FormID:                     f.ID,
			EnableMandatoryEmail:       f.EnableMandatoryEmail,
			MinDaysBetweenAppointments: f.MinDaysBetweenAppointments,
			MaxAppointmentsPerPeriod:   f.MaxAppointmentsPerPeriod,
			PeriodDays:                 f.PeriodDays,
			MaxPeoplePerAppointment:    max(f.MaxPeoplePerAppointment, domain.DefaultMaxPeoplePerAppointment),
			MaxCapacityPerSlot:         f.MaxCapacityPerSlot,
			HoldTimeoutSeconds:         f.HoldTimeoutSeconds,
		}
		if f.CategoryID != 0 {
			formRules.CategoryID = ptr.Ptr(f.CategoryID)
		}
		rules.PutFormRules(formRules)

		if len(f.OpenDays) == 0 {
			continue
		}
		schedule, err := f.weekSchedule()
		if err != nil {
			return err
		}
		rules.PutWeekSchedule(*schedule)

		if err := s.materialize(ctx, schedule, f.MaxCapacityPerSlot, from, f.GenerateDays); err != nil {
			return err
		}
	}
	return nil
}

func (f SeedForm) weekSchedule() (*domain.WeekSchedule, error) {
	start, err := types.NewTimeStringFromString(f.TimeStart)
	if err != nil {
		return nil, fmt.Errorf("memory: form id=%d: %w", f.ID, err)
	}
	end, err := types.NewTimeStringFromString(f.TimeEnd)
	if err != nil {
		return nil, fmt.Errorf("memory: form id=%d: %w", f.ID, err)
	}
	duration := f.SlotDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSlotDurationMinutes
	}

	schedule := &domain.WeekSchedule{
		FormID:              f.ID,
		TimeStart:           start,
		TimeEnd:             end,
		SlotDurationMinutes: duration,
	}
	for _, d := range f.OpenDays {
		day := time.Weekday(d)
		schedule.OpenDays = append(schedule.OpenDays, day)

		wd := domain.WorkingDay{Weekday: day}
		for t := start; !t.AddMinutes(duration).IsAfter(end) && t.IsBefore(end); t = t.AddMinutes(duration) {
			wd.TimeSlots = append(wd.TimeSlots, domain.TimeSlotDefinition{
				Weekday:     day,
				StartTime:   t,
				EndTime:     t.AddMinutes(duration),
				IsOpen:      true,
				MaxCapacity: f.MaxCapacityPerSlot,
			})
		}
		schedule.WorkingDays = append(schedule.WorkingDays, wd)
	}
	return schedule, nil
}

func (s *Store) materialize(ctx context.Context, schedule *domain.WeekSchedule, capacity int, from time.Time, days int) error {
	slots := s.Slots()
	first := domain.DateOf(from)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i)
		wd, ok := schedule.WorkingDayFor(date.Weekday())
		if !ok {
			continue
		}
		for _, ts := range wd.TimeSlots {
			_, err := slots.Create(ctx, &domain.Slot{
				FormID:      schedule.FormID,
				StartingAt:  ts.StartTime.On(date),
				EndingAt:    ts.EndTime.On(date),
				MaxCapacity: capacity,
				IsOpen:      ts.IsOpen,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
