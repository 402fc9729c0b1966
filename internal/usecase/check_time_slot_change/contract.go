package check_time_slot_change

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByFormAndRange(ctx context.Context, formID int64, from, to time.Time) ([]*domain.Slot, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
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
