package eligibility

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RulesReader чтение правил формы и категорий
type RulesReader interface {
	GetFormRules(ctx context.Context, formID int64) (*domain.FormRules, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
}

// HistoryReader чтение истории записей пользователя
type HistoryReader interface {
	GetByFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// MetricsRecorder учёт нарушений по кодам; реализация должна допускать nil-получателя
type MetricsRecorder interface {
	RecordViolation(code string)
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
