package get_slot_availability

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type AvailabilityService interface {
	Availability(ctx context.Context, slotID int64) (*domain.SlotAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
