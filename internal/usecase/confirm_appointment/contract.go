package confirm_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByReference(ctx context.Context, reference string) (*domain.Appointment, error)
}

// EligibilityEngine интерфейс проверки правил записи
type EligibilityEngine interface {
	Evaluate(ctx context.Context, c eligibility.Candidate) (*eligibility.Result, error)
}

// CapacityManager интерфейс менеджера мест
type CapacityManager interface {
	SessionHolds(sessionID string, slotIDs []int64) []*holdscheduler.Token
	Confirm(ctx context.Context, req slotcapacity.ConfirmRequest) (*domain.Appointment, error)
}

// EventPublisher интерфейс издателя событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.AppointmentEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
