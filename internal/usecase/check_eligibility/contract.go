package check_eligibility

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error)
}

// EligibilityEngine интерфейс проверки правил записи
type EligibilityEngine interface {
	Evaluate(ctx context.Context, c eligibility.Candidate) (*eligibility.Result, error)
}

// HoldsReader удержания сессии
type HoldsReader interface {
	SessionHolds(sessionID string, slotIDs []int64) []*holdscheduler.Token
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
