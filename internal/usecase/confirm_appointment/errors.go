package confirm_appointment

import (
	"errors"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
)

var (
	// ErrSlotNotFound возвращается, когда хотя бы один слот не найден
	ErrSlotNotFound = errors.New("confirm_appointment: slot not found")

	// ErrRulesNotFound возвращается, когда для формы не настроены правила
	ErrRulesNotFound = errors.New("confirm_appointment: form rules not found")

	// ErrNotEligible возвращается, когда запись нарушает правила формы
	ErrNotEligible = errors.New("confirm_appointment: appointment violates form rules")

	// ErrNoSeatsAvailable возвращается, когда мест на слоте больше не хватает
	ErrNoSeatsAvailable = errors.New("confirm_appointment: no seats available")

	// ErrSlotClosed возвращается для закрытого слота
	ErrSlotClosed = errors.New("confirm_appointment: slot is closed")

	// ErrSlotBusy возвращается, когда слот слишком долго занят другими запросами
	ErrSlotBusy = errors.New("confirm_appointment: slot is busy, try again")

	// ErrShuttingDown возвращается во время остановки сервиса
	ErrShuttingDown = errors.New("confirm_appointment: service is shutting down")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_appointment: internal error")
)

// EligibilityError нарушения правил формы; errors.Is(err, ErrNotEligible) == true
type EligibilityError struct {
	Violations []eligibility.Violation
}

func (e *EligibilityError) Error() string {
	codes := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		codes[i] = string(v.Code)
	}
	return ErrNotEligible.Error() + ": " + strings.Join(codes, ",")
}

func (e *EligibilityError) Unwrap() error {
	return ErrNotEligible
}
