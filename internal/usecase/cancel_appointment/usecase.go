package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case для отмены подтверждённой записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	manager         CapacityManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	manager CapacityManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
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

// Execute выполняет use case отмены записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: id=%d, reference=%s", req.AppointmentID, req.Reference)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Находим запись
	appt, err := uc.find(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Проверяем владельца и состояние
	if err := validateOwner(appt, req.Email); err != nil {
		uc.logger.Warn("CancelAppointment: email does not match appointment id=%d", appt.ID)
		return nil, err
	}
	if appt.IsCancelled {
		return nil, ErrAlreadyCancelled
	}
	if appt.IsExpired(now) {
		uc.logger.Warn("CancelAppointment: appointment id=%d already passed", appt.ID)
		return nil, ErrAppointmentPassed
	}

	// 5. Отмена под блокировкой слотов, места возвращаются
	cancelled, err := uc.manager.CancelAppointment(ctx, appt.ID)
	if err != nil {
		switch {
		case errors.Is(err, slotcapacity.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, slotcapacity.ErrAlreadyCancelled):
			return nil, ErrAlreadyCancelled
		case errors.Is(err, slotcapacity.ErrLockTimeout):
			uc.logger.Warn("CancelAppointment: slots of appointment id=%d lock wait exceeded", appt.ID)
			return nil, ErrSlotBusy
		}
		uc.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
	}

	// 6. Событие; ошибка публикации не отменяет отмену
	if err := uc.publisher.Publish(ctx, events.NewAppointmentEvent(events.TypeAppointmentCancelled, cancelled, now)); err != nil {
		uc.logger.Warn("CancelAppointment: failed to publish event for appointment id=%d: %v", cancelled.ID, err)
	}

	uc.logger.Info("CancelAppointment: successfully cancelled appointment id=%d", cancelled.ID)

	return &Response{
		ID:          cancelled.ID,
		Reference:   cancelled.Reference,
		SlotIDs:     cancelled.SlotIDs(),
		BookedSeats: cancelled.BookedSeats,
		CancelledAt: ptr.Value(cancelled.CancelledAt, now),
	}, nil
}

func (uc *UseCase) find(ctx context.Context, req *Request) (*domain.Appointment, error) {
	var (
		appt *domain.Appointment
		err  error
	)
	if req.AppointmentID > 0 {
		appt, err = uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	} else {
		appt, err = uc.appointmentRepo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(req.Reference)))
	}
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d, reference=%s not found", req.AppointmentID, req.Reference)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: failed to get appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return appt, nil
}
