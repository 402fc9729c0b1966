package cancel_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID < 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID == 0 && strings.TrimSpace(req.Reference) == "" {
		return fmt.Errorf("%w: appointmentID or reference is required", ErrInvalidInput)
	}

	return nil
}

// validateOwner проверяет email владельца записи без учёта регистра
func validateOwner(appt *domain.Appointment, email string) error {
	if email == "" {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(appt.Email), strings.TrimSpace(email)) {
		return ErrAccessDenied
	}
	return nil
}
