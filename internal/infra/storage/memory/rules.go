package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rulesRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/rules"
)

// RulesRepository правила форм в памяти
type RulesRepository struct {
	store *Store
}

// PutFormRules сохраняет правила формы
func (r *RulesRepository) PutFormRules(rules domain.FormRules) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.forms[rules.FormID] = &rules
}

// PutCategory сохраняет категорию
func (r *RulesRepository) PutCategory(category domain.Category) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.categories[category.ID] = &category
}

// PutWeekSchedule сохраняет недельное расписание формы
func (r *RulesRepository) PutWeekSchedule(schedule domain.WeekSchedule) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.schedules[schedule.FormID] = &schedule
}

func (r *RulesRepository) GetFormRules(ctx context.Context, formID int64) (*domain.FormRules, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rules, ok := r.store.forms[formID]
	if !ok {
		return nil, rulesRepo.ErrRulesNotFound
	}
	out := *rules
	return &out, nil
}

func (r *RulesRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok {
		return nil, rulesRepo.ErrCategoryNotFound
	}
	out := *category
	return &out, nil
}

func (r *RulesRepository) GetWeekSchedule(ctx context.Context, formID int64) (*domain.WeekSchedule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	schedule, ok := r.store.schedules[formID]
	if !ok {
		return nil, rulesRepo.ErrScheduleNotFound
	}
	out := *schedule
	out.OpenDays = append([]time.Weekday(nil), schedule.OpenDays...)
	out.WorkingDays = append([]domain.WorkingDay(nil), schedule.WorkingDays...)
	return &out, nil
}
