package get_slot_availability

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	SlotID                   int64 `json:"slotId"`
	MaxCapacity              int   `json:"maxCapacity"`
	ConfirmedSeats           int   `json:"confirmedSeats"`
	HeldSeats                int   `json:"heldSeats"`
	RemainingPlaces          int   `json:"remainingPlaces"`
	PotentialRemainingPlaces int   `json:"potentialRemainingPlaces"`
}

func FromDomain(a *domain.SlotAvailability) *AvailabilityResponse {
	return &AvailabilityResponse{
		SlotID:                   a.SlotID,
		MaxCapacity:              a.MaxCapacity,
		ConfirmedSeats:           a.ConfirmedSeats,
		HeldSeats:                a.PotentialHeldSeats,
		RemainingPlaces:          a.RemainingPlaces,
		PotentialRemainingPlaces: a.PotentialRemainingPlaces,
	}
}
