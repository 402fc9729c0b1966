package slotcapacity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotReader чтение снимка слота из хранилища (вызывается вне блокировки слота)
type SlotReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// AppointmentStore хранилище подтверждённых записей
// SaveConfirmed и CancelConfirmed атомарно меняют счётчики мест слотов вместе с записью
// и возвращают запись со слотами в состоянии после изменения
type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	SaveConfirmed(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	CancelConfirmed(ctx context.Context, id int64, at time.Time) (*domain.Appointment, error)
}

// MetricsRecorder бизнес-метрики; реализация должна допускать nil-получателя
type MetricsRecorder interface {
	RecordHoldPlaced(outcome string)
	RecordHoldReleased(reason string)
	RecordConfirmation(outcome string)
	RecordCancellation()
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
