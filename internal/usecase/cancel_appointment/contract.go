package cancel_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByReference(ctx context.Context, reference string) (*domain.Appointment, error)
}

// CapacityManager интерфейс менеджера мест
type CapacityManager interface {
	CancelAppointment(ctx context.Context, appointmentID int64) (*domain.Appointment, error)
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
