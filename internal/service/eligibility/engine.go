package eligibility

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rulesRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/rules"
)

// Candidate предполагаемая запись, которую нужно проверить
type Candidate struct {
	FormID       int64
	Email        string
	ConfirmEmail string
	Slots        []*domain.Slot
	RawSeats     string // число мест в том виде, в каком его прислал клиент

	GrantedSeats     int  // сколько мест выдано удержанием
	AllowOverbooking bool // администратор может записать больше мест, чем удержано

	// ExcludeAppointmentID запись, которую редактируют; не учитывается в истории
	ExcludeAppointmentID int64
}

// Engine проверяет правила записи и собирает все нарушения, а не только первое
type Engine struct {
	rules        RulesReader
	history      HistoryReader
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewEngine создаёт движок проверки правил
func NewEngine(rules RulesReader, history HistoryReader, metrics MetricsRecorder, logger Logger) *Engine {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Engine{
		rules:        rules,
		history:      history,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (для тестирования)
func (e *Engine) SetTimeProvider(tp TimeProvider) {
	e.timeProvider = tp
}

// Evaluate проверяет кандидата
// Ошибка возвращается только при проблемах конфигурации или хранилища;
// нарушения правил возвращаются в Result
func (e *Engine) Evaluate(ctx context.Context, c Candidate) (*Result, error) {
	if c.FormID <= 0 {
		return nil, fmt.Errorf("%w: form_id=%d", ErrInvalidCandidate, c.FormID)
	}

	rules, err := e.rules.GetFormRules(ctx, c.FormID)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			return nil, fmt.Errorf("%w: form_id=%d", ErrRulesNotFound, c.FormID)
		}
		return nil, fmt.Errorf("%w: Evaluate - GetFormRules: %v", ErrHistoryUnavailable, err)
	}

	now := e.timeProvider.Now()
	result := &Result{}
	add := func(code Code, detail string) {
		result.Violations = append(result.Violations, Violation{Code: code, Detail: detail})
	}

	// 1. Email и подтверждение
	for _, code := range CheckEmail(c.Email, c.ConfirmEmail, rules.EnableMandatoryEmail) {
		add(code, "")
	}

	// 2. Дата в прошлом
	start := earliestStart(c.Slots)
	if !DateNotInPast(start, now) {
		add(CodeDateInPast, start.Format(domain.DateFormat))
	}

	// 3. Правила по истории пользователя на форме
	if (rules.HasGapRule() || rules.HasPeriodCap()) && c.Email != "" && !start.IsZero() {
		history, err := e.history.GetByFilter(ctx, domain.AppointmentFilter{
			Email:  c.Email,
			FormID: &c.FormID,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: Evaluate - form history: %v", ErrHistoryUnavailable, err)
		}

		if !GapRespected(history, start, rules.MinDaysBetweenAppointments, c.ExcludeAppointmentID) {
			add(CodeMinDaysBetween, fmt.Sprintf("min_days=%d", rules.MinDaysBetweenAppointments))
		}
		if !GapSinceLastTakenRespected(history, now, rules.MinDaysBetweenAppointments, c.ExcludeAppointmentID) {
			add(CodeMinDaysSinceLastTaken, fmt.Sprintf("min_days=%d", rules.MinDaysBetweenAppointments))
		}
		if !WindowCapRespected(history, start, rules.MaxAppointmentsPerPeriod, rules.PeriodDays, c.ExcludeAppointmentID) {
			add(CodeMaxPerPeriod, fmt.Sprintf("max=%d, period_days=%d", rules.MaxAppointmentsPerPeriod, rules.PeriodDays))
		}
	}

	// 4. Ограничение категории
	if rules.CategoryID != nil {
		category, err := e.rules.GetCategory(ctx, *rules.CategoryID)
		if err != nil {
			if errors.Is(err, rulesRepo.ErrCategoryNotFound) {
				e.logger.Error("Evaluate: form references missing category form_id=%d, category_id=%d", c.FormID, *rules.CategoryID)
				return nil, fmt.Errorf("%w: category_id=%d", ErrCategoryNotFound, *rules.CategoryID)
			}
			return nil, fmt.Errorf("%w: Evaluate - GetCategory: %v", ErrHistoryUnavailable, err)
		}

		if category.HasCap() && c.Email != "" {
			history, err := e.history.GetByFilter(ctx, domain.AppointmentFilter{
				Email:      c.Email,
				CategoryID: &category.ID,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: Evaluate - category history: %v", ErrHistoryUnavailable, err)
			}
			if !CategoryCapRespected(history, now, category.MaxAppointmentsPerUser, c.ExcludeAppointmentID) {
				add(CodeMaxPerCategory, fmt.Sprintf("category=%s, max=%d", category.Name, category.MaxAppointmentsPerUser))
			}
		}
	}

	// 5. Количество мест
	seats, codes := ParseSeats(c.RawSeats, rules.MaxPeoplePerAppointment, c.GrantedSeats, c.AllowOverbooking)
	result.Seats = seats
	for _, code := range codes {
		add(code, fmt.Sprintf("seats=%q, granted=%d", c.RawSeats, c.GrantedSeats))
	}

	// 6. Слоты подряд
	if !SlotsConsecutive(c.Slots) {
		add(CodeSlotsNotConsecutive, "")
	}

	for _, v := range result.Violations {
		e.metrics.RecordViolation(string(v.Code))
	}
	if !result.OK() {
		e.logger.Info("Evaluate: candidate rejected form_id=%d, codes=%s", c.FormID, result.String())
	}

	return result, nil
}

func earliestStart(slots []*domain.Slot) (start time.Time) {
	ordered := make([]*domain.Slot, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			ordered = append(ordered, s)
		}
	}
	if len(ordered) == 0 {
		return start
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartingAt.Before(ordered[j].StartingAt) })
	return ordered[0].StartingAt
}

type noopMetrics struct{}

func (noopMetrics) RecordViolation(string) {}
