package place_hold

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.Seats < 0 || req.Seats > domain.MaxSeatsPerAppointment {
		return fmt.Errorf("%w: seats must be between 0 and %d", ErrInvalidInput, domain.MaxSeatsPerAppointment)
	}

	return nil
}

// holdTimeout время жизни удержания: значение формы, иначе значение сервиса
func holdTimeout(rules *domain.FormRules, fallback time.Duration) time.Duration {
	if rules.HoldTimeoutSeconds <= 0 {
		return fallback
	}
	seconds := rules.HoldTimeoutSeconds
	if seconds < domain.MinHoldTimeoutSeconds {
		seconds = domain.MinHoldTimeoutSeconds
	}
	if seconds > domain.MaxHoldTimeoutSeconds {
		seconds = domain.MaxHoldTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// maxSeats сколько мест одна сессия может удержать на слоте
func maxSeats(rules *domain.FormRules) int {
	if rules.MaxPeoplePerAppointment <= 0 {
		return domain.DefaultMaxPeoplePerAppointment
	}
	return rules.MaxPeoplePerAppointment
}
