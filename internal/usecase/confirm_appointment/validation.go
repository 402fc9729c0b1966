package confirm_appointment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID == "" {
		return fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}

	if req.FormID <= 0 {
		return fmt.Errorf("%w: formID must be positive", ErrInvalidInput)
	}

	if len(req.SlotIDs) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}

	if len(req.SlotIDs) > domain.MaxSlotsPerAppointment {
		return fmt.Errorf("%w: at most %d slots per appointment", ErrInvalidInput, domain.MaxSlotsPerAppointment)
	}

	seen := make(map[int64]struct{}, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if id <= 0 {
			return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: slot id=%d is repeated", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateSlotsBelongToForm проверяет, что все слоты принадлежат форме
func validateSlotsBelongToForm(slots []*domain.Slot, formID int64) error {
	for _, slot := range slots {
		if slot.FormID != formID {
			return fmt.Errorf("%w: slot id=%d does not belong to form id=%d", ErrInvalidInput, slot.ID, formID)
		}
	}
	return nil
}

// grantedSeats сколько мест гарантировано удержаниями сессии на всех выбранных слотах
// Слот без удержания даёт 0
func grantedSeats(holds []*holdscheduler.Token, slotIDs []int64) int {
	bySlot := make(map[int64]int, len(holds))
	for _, tok := range holds {
		bySlot[tok.SlotID] = tok.Seats
	}

	granted := -1
	for _, id := range slotIDs {
		seats := bySlot[id]
		if granted < 0 || seats < granted {
			granted = seats
		}
	}
	if granted < 0 {
		return 0
	}
	return granted
}

// newReference генерирует код записи из заглавных букв и цифр
func newReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:domain.ReferenceLength])
}
