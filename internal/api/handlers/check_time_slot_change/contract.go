package check_time_slot_change

import (
	"context"

	checkTimeSlotChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_time_slot_change"
)

type CheckTimeSlotChangeUseCase interface {
	Execute(ctx context.Context, req *checkTimeSlotChange.Request) (*checkTimeSlotChange.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
