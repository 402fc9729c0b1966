package cancel_hold

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
)

type HoldService interface {
	LookupHold(tokenID string) (*holdscheduler.Token, bool)
	CancelHold(ctx context.Context, tok *holdscheduler.Token) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
