package check_schedule_change

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rulesRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/impact"
)

// UseCase use case для проверки влияния нового недельного расписания на подтверждённые записи
type UseCase struct {
	rulesRepo       RulesRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(rulesRepo RulesRepository, appointmentRepo AppointmentRepository, logger Logger) *UseCase {
	return &UseCase{
		rulesRepo:       rulesRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (для тестирования)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case; расписание не меняется, решение о применении остаётся за вызывающим
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckScheduleChange: form=%d, open_days=%v, time=%s-%s, duration=%d",
		req.FormID, req.OpenDays, req.TimeStart, req.TimeEnd, req.SlotDurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckScheduleChange: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее расписание
	current, err := uc.rulesRepo.GetWeekSchedule(ctx, req.FormID)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrScheduleNotFound) {
			uc.logger.Warn("CheckScheduleChange: schedule for form id=%d not found", req.FormID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("CheckScheduleChange: failed to get schedule for form id=%d: %v", req.FormID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 3. Слоты с подтверждёнными записями начиная с сегодняшнего дня
	from := domain.DateOf(uc.timeProvider.Now())
	booked, err := uc.appointmentRepo.GetSlotsWithActiveAppointments(ctx, req.FormID, from)
	if err != nil {
		uc.logger.Error("CheckScheduleChange: failed to get booked slots for form id=%d: %v", req.FormID, err)
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}

	// 4. Анализ
	next := toSchedule(req)
	report := impact.Analyze(current, next, booked)

	resp := &Response{
		Impacted:          report.Impacted(),
		RemovedDays:       report.RemovedDays,
		DurationChanged:   report.DurationChanged,
		TimeWindowChanged: report.TimeWindowChanged,
		ImpactedSlotIDs:   slotIDs(report.ImpactedSlots),
	}
	if len(next.WorkingDays) > 0 {
		mismatched := impact.MismatchedSlots(booked, next.WorkingDays)
		resp.MismatchedSlotIDs = slotIDs(mismatched)
		resp.Impacted = resp.Impacted || len(mismatched) > 0
	}

	uc.logger.Info("CheckScheduleChange: form=%d impacted=%t, booked slots=%d, removed days=%v",
		req.FormID, resp.Impacted, len(booked), resp.RemovedDays)
	return resp, nil
}
