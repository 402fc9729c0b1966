package check_eligibility

import (
	"context"

	checkEligibility "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_eligibility"
)

type CheckEligibilityUseCase interface {
	Execute(ctx context.Context, req *checkEligibility.Request) (*checkEligibility.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
