package check_schedule_change

import (
	"context"

	checkScheduleChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_schedule_change"
)

type CheckScheduleChangeUseCase interface {
	Execute(ctx context.Context, req *checkScheduleChange.Request) (*checkScheduleChange.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
