package check_eligibility

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
)

func validateRequest(req *Request) error {
	if req.FormID <= 0 {
		return fmt.Errorf("%w: formID must be positive", ErrInvalidInput)
	}
	if len(req.SlotIDs) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}
	if len(req.SlotIDs) > domain.MaxSlotsPerAppointment {
		return fmt.Errorf("%w: at most %d slots per appointment", ErrInvalidInput, domain.MaxSlotsPerAppointment)
	}
	for _, id := range req.SlotIDs {
		if id <= 0 {
			return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
		}
	}
	return nil
}

// heldSeats минимум удержанных сессией мест по всем слотам; без сессии ограничения нет
func heldSeats(holds []*holdscheduler.Token, slotIDs []int64, sessionID string) (int, bool) {
	if sessionID == "" {
		return 0, true
	}
	bySlot := make(map[int64]int, len(holds))
	for _, tok := range holds {
		bySlot[tok.SlotID] = tok.Seats
	}
	granted := bySlot[slotIDs[0]]
	for _, id := range slotIDs[1:] {
		if bySlot[id] < granted {
			granted = bySlot[id]
		}
	}
	return granted, false
}
