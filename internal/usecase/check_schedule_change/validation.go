package check_schedule_change

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

	for _, d := range req.OpenDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidInput, d)
		}
	}

	if err := req.TimeStart.Validate(); err != nil {
		return fmt.Errorf("%w: invalid timeStart: %v", ErrInvalidInput, err)
	}
	if err := req.TimeEnd.Validate(); err != nil {
		return fmt.Errorf("%w: invalid timeEnd: %v", ErrInvalidInput, err)
	}
	if !req.TimeStart.IsBefore(req.TimeEnd) {
		return fmt.Errorf("%w: timeStart must be before timeEnd", ErrInvalidInput)
	}

	if req.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slotDurationMinutes must be positive", ErrInvalidInput)
	}

	return nil
}

func toSchedule(req *Request) *domain.WeekSchedule {
	return &domain.WeekSchedule{
		FormID:              req.FormID,
		OpenDays:            req.OpenDays,
		TimeStart:           req.TimeStart,
		TimeEnd:             req.TimeEnd,
		SlotDurationMinutes: req.SlotDurationMinutes,
		WorkingDays:         req.WorkingDays,
	}
}

func slotIDs(slots []*domain.Slot) []int64 {
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}
