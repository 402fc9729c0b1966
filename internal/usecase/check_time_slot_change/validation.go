package check_time_slot_change

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FormID <= 0 {
		return fmt.Errorf("%w: formID must be positive", ErrInvalidInput)
	}

	ts := req.TimeSlot
	if ts.Weekday < time.Sunday || ts.Weekday > time.Saturday {
		return fmt.Errorf("%w: invalid weekday %d", ErrInvalidInput, ts.Weekday)
	}
	if err := ts.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := ts.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !ts.StartTime.IsBefore(ts.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if !req.From.IsZero() && !req.To.IsZero() && !req.From.Before(req.To) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	return nil
}

// period границы проверяемого периода
func period(req *Request, now time.Time) (time.Time, time.Time) {
	from := req.From
	if from.IsZero() {
		from = domain.DateOf(now)
	}
	to := req.To
	if to.IsZero() {
		to = from.AddDate(0, 0, DefaultHorizonDays)
	}
	return from, to
}
