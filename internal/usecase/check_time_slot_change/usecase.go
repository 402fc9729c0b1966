package check_time_slot_change

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/service/impact"
)

// UseCase use case для проверки влияния изменения временного слота на созданные слоты
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, appointmentRepo AppointmentRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (для тестирования)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckTimeSlotChange: form=%d, weekday=%s, time=%s-%s, shift=%t",
		req.FormID, req.TimeSlot.Weekday, req.TimeSlot.StartTime, req.TimeSlot.EndTime, req.Shift)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckTimeSlotChange: validation failed: %v", err)
		return nil, err
	}

	// 2. Созданные слоты формы в периоде
	from, to := period(req, uc.timeProvider.Now())
	slots, err := uc.slotRepo.GetByFormAndRange(ctx, req.FormID, from, to)
	if err != nil {
		uc.logger.Error("CheckTimeSlotChange: failed to get slots for form id=%d: %v", req.FormID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 3. Затронутые слоты и записи на них
	impacted := impact.SlotsImpactedByTimeSlot(req.TimeSlot, slots, req.Shift)
	resp := &Response{
		ImpactedSlotIDs:       make([]int64, 0, len(impacted)),
		SlotsWithAppointments: make([]int64, 0),
	}
	for _, slot := range impacted {
		resp.ImpactedSlotIDs = append(resp.ImpactedSlotIDs, slot.ID)

		count, err := uc.appointmentRepo.CountActiveBySlot(ctx, slot.ID)
		if err != nil {
			uc.logger.Error("CheckTimeSlotChange: failed to count appointments on slot id=%d: %v", slot.ID, err)
			return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
		}
		if count > 0 {
			resp.SlotsWithAppointments = append(resp.SlotsWithAppointments, slot.ID)
		}
	}
	resp.Impacted = len(resp.SlotsWithAppointments) > 0

	uc.logger.Info("CheckTimeSlotChange: form=%d impacted slots=%d, with appointments=%d",
		req.FormID, len(resp.ImpactedSlotIDs), len(resp.SlotsWithAppointments))
	return resp, nil
}
