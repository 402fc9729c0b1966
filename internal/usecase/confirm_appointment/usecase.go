package confirm_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
)

const referenceAttempts = 3

// UseCase use case для подтверждения записи
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	engine          EligibilityEngine
	manager         CapacityManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	engine EligibilityEngine,
	manager CapacityManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		engine:          engine,
		manager:         manager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider устанавливает провайдер времени (для тестирования)
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет use case подтверждения записи
// Правила формы проверяются до блокировки слотов; вместимость повторно проверяется под блокировкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmAppointment: session=%s, form=%d, slots=%v, seats=%q",
		req.SessionID, req.FormID, req.SlotIDs, req.Seats)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем слоты
	slots, err := uc.slotRepo.GetByIDs(ctx, req.SlotIDs)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("ConfirmAppointment: slots=%v not found", req.SlotIDs)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("ConfirmAppointment: failed to get slots=%v: %v", req.SlotIDs, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}
	if err := validateSlotsBelongToForm(slots, req.FormID); err != nil {
		uc.logger.Warn("ConfirmAppointment: %v", err)
		return nil, err
	}

	// 4. Удержания сессии
	holds := uc.manager.SessionHolds(req.SessionID, req.SlotIDs)
	granted := grantedSeats(holds, req.SlotIDs)

	// 5. Правила формы: собираем все нарушения
	result, err := uc.engine.Evaluate(ctx, eligibility.Candidate{
		FormID:           req.FormID,
		Email:            req.Email,
		ConfirmEmail:     req.ConfirmEmail,
		Slots:            slots,
		RawSeats:         req.Seats,
		GrantedSeats:     granted,
		AllowOverbooking: req.AllowOverbooking,
	})
	if err != nil {
		if errors.Is(err, eligibility.ErrRulesNotFound) {
			uc.logger.Warn("ConfirmAppointment: rules for form id=%d not found", req.FormID)
			return nil, ErrRulesNotFound
		}
		uc.logger.Error("ConfirmAppointment: eligibility check failed for form id=%d: %v", req.FormID, err)
		return nil, fmt.Errorf("%w: eligibility check: %v", ErrInternal, err)
	}
	if !result.OK() {
		uc.logger.Warn("ConfirmAppointment: session=%s not eligible: %s", req.SessionID, result.String())
		return nil, &EligibilityError{Violations: result.Violations}
	}

	// 6. Код записи
	reference, err := uc.uniqueReference(ctx)
	if err != nil {
		return nil, err
	}

	draft := &domain.Appointment{
		FormID:      req.FormID,
		Reference:   reference,
		UserID:      req.UserID,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BookedSeats: result.Seats,
		DateTaken:   now,
	}
	for _, slot := range slots {
		draft.Slots = append(draft.Slots, domain.Slot{ID: slot.ID})
	}

	// 7. Подтверждение под блокировкой слотов
	saved, err := uc.manager.Confirm(ctx, slotcapacity.ConfirmRequest{Appointment: draft, Holds: holds})
	if err != nil {
		return nil, uc.mapError(req, err)
	}

	// 8. Событие; ошибка публикации не отменяет запись
	if err := uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentConfirmed, saved, now)); err != nil {
		uc.logger.Warn("ConfirmAppointment: failed to publish event for appointment id=%d: %v", saved.ID, err)
	}

	uc.logger.Info("ConfirmAppointment: successfully confirmed appointment id=%d, reference=%s", saved.ID, saved.Reference)

	return &Response{
		ID:          saved.ID,
		Reference:   saved.Reference,
		FormID:      saved.FormID,
		SlotIDs:     saved.SlotIDs(),
		BookedSeats: saved.BookedSeats,
		StartingAt:  saved.StartingAt(),
		EndingAt:    saved.EndingAt(),
		DateTaken:   saved.DateTaken,
		CreatedAt:   saved.CreatedAt,
	}, nil
}

// uniqueReference подбирает код, которого ещё нет в хранилище
func (uc *UseCase) uniqueReference(ctx context.Context) (string, error) {
	for i := 0; i < referenceAttempts; i++ {
		reference := newReference()
		_, err := uc.appointmentRepo.GetByReference(ctx, reference)
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return reference, nil
		}
		if err != nil {
			uc.logger.Error("ConfirmAppointment: failed to check reference: %v", err)
			return "", fmt.Errorf("%w: failed to check reference: %v", ErrInternal, err)
		}
	}
	uc.logger.Error("ConfirmAppointment: no free reference after %d attempts", referenceAttempts)
	return "", fmt.Errorf("%w: failed to generate reference", ErrInternal)
}

func (uc *UseCase) mapError(req *Request, err error) error {
	switch {
	case errors.Is(err, slotcapacity.ErrCapacityExceeded):
		uc.logger.Warn("ConfirmAppointment: not enough seats on slots=%v", req.SlotIDs)
		return ErrNoSeatsAvailable
	case errors.Is(err, slotcapacity.ErrSlotClosed):
		return ErrSlotClosed
	case errors.Is(err, slotcapacity.ErrSlotNotFound):
		return ErrSlotNotFound
	case errors.Is(err, slotcapacity.ErrLockTimeout):
		uc.logger.Warn("ConfirmAppointment: slots=%v lock wait exceeded", req.SlotIDs)
		return ErrSlotBusy
	case errors.Is(err, slotcapacity.ErrShuttingDown):
		return ErrShuttingDown
	case errors.Is(err, slotcapacity.ErrInvalidRequest):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	uc.logger.Error("ConfirmAppointment: failed to confirm slots=%v: %v", req.SlotIDs, err)
	return fmt.Errorf("%w: failed to confirm: %v", ErrInternal, err)
}
