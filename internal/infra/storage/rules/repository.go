package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий правил записи: настройки форм, категории, недельное расписание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetFormRules получает правила формы
func (r *Repository) GetFormRules(ctx context.Context, formID int64) (*domain.FormRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"category_id",
		"enable_mandatory_email",
		"min_days_between_appointments",
		"max_appointments_per_period",
		"period_days",
		"max_people_per_appointment",
		"max_capacity_per_slot",
		"hold_timeout_seconds",
	).
		From("forms").
		Where(squirrel.Eq{"id": formID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetFormRules - build select query: %v", ErrBuildQuery, err)
	}

	var (
		rules      domain.FormRules
		categoryID sql.NullInt64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.FormID,
		&categoryID,
		&rules.EnableMandatoryEmail,
		&rules.MinDaysBetweenAppointments,
		&rules.MaxAppointmentsPerPeriod,
		&rules.PeriodDays,
		&rules.MaxPeoplePerAppointment,
		&rules.MaxCapacityPerSlot,
		&rules.HoldTimeoutSeconds,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRulesNotFound
		}
		return nil, fmt.Errorf("%w: GetFormRules - scan: %v", ErrScanRow, err)
	}
	if categoryID.Valid {
		rules.CategoryID = &categoryID.Int64
	}
	return &rules, nil
}

// GetCategory получает категорию форм
func (r *Repository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "max_appointments_per_user").
		From("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCategory - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Category
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.MaxAppointmentsPerUser); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: GetCategory - scan: %v", ErrScanRow, err)
	}
	return &c, nil
}

// GetWeekSchedule получает действующее недельное расписание формы вместе с описанием рабочих дней
func (r *Repository) GetWeekSchedule(ctx context.Context, formID int64) (*domain.WeekSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("form_id", "open_days", "time_start", "time_end", "slot_duration_minutes").
		From("week_schedules").
		Where(squirrel.Eq{"form_id": formID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekSchedule - build select query: %v", ErrBuildQuery, err)
	}

	var (
		schedule domain.WeekSchedule
		openDays []int64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.FormID,
		pq.Array(&openDays),
		&schedule.TimeStart,
		&schedule.TimeEnd,
		&schedule.SlotDurationMinutes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("%w: GetWeekSchedule - scan: %v", ErrScanRow, err)
	}
	for _, d := range openDays {
		schedule.OpenDays = append(schedule.OpenDays, time.Weekday(d))
	}

	workingDays, err := r.getWorkingDays(ctx, executor, formID)
	if err != nil {
		return nil, err
	}
	schedule.WorkingDays = workingDays
	return &schedule, nil
}

func (r *Repository) getWorkingDays(ctx context.Context, executor DBExecutor, formID int64) ([]domain.WorkingDay, error) {
	query, args, err := psqlbuilder.Select("id", "weekday", "start_time", "end_time", "is_open", "max_capacity").
		From("time_slot_definitions").
		Where(squirrel.Eq{"form_id": formID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]domain.WorkingDay, 0)
	for rows.Next() {
		var (
			ts      domain.TimeSlotDefinition
			weekday int
		)
		if err := rows.Scan(&ts.ID, &weekday, &ts.StartTime, &ts.EndTime, &ts.IsOpen, &ts.MaxCapacity); err != nil {
			return nil, fmt.Errorf("%w: getWorkingDays - scan: %v", ErrScanRow, err)
		}
		ts.Weekday = time.Weekday(weekday)

		if n := len(days); n == 0 || days[n-1].Weekday != ts.Weekday {
			days = append(days, domain.WorkingDay{Weekday: ts.Weekday})
		}
		days[len(days)-1].TimeSlots = append(days[len(days)-1].TimeSlots, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWorkingDays - rows iteration: %v", ErrScanRow, err)
	}
	return days, nil
}
