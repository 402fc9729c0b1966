package place_hold

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// RulesRepository интерфейс репозитория правил формы
type RulesRepository interface {
	GetFormRules(ctx context.Context, formID int64) (*domain.FormRules, error)
}

// CapacityManager интерфейс менеджера мест
type CapacityManager interface {
	PlaceHold(ctx context.Context, req slotcapacity.HoldRequest) (*slotcapacity.HoldResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
