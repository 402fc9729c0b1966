package check_schedule_change

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RulesRepository интерфейс репозитория правил формы
type RulesRepository interface {
	GetWeekSchedule(ctx context.Context, formID int64) (*domain.WeekSchedule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetSlotsWithActiveAppointments(ctx context.Context, formID int64, from time.Time) ([]*domain.Slot, error)
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
