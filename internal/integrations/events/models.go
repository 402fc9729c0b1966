package events

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	TypeAppointmentConfirmed = "appointment.confirmed"
	TypeAppointmentCancelled = "appointment.cancelled"
)

// AppointmentEvent событие жизненного цикла записи
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID int64     `json:"appointment_id"`
	Reference     string    `json:"reference"`
	FormID        int64     `json:"form_id"`
	Email         string    `json:"email,omitempty"`
	SlotIDs       []int64   `json:"slot_ids"`
	BookedSeats   int       `json:"booked_seats"`
	StartingAt    time.Time `json:"starting_at"`
	EndingAt      time.Time `json:"ending_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewAppointmentEvent собирает событие из записи
func NewAppointmentEvent(eventType string, appt *domain.Appointment, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: appt.ID,
		Reference:     appt.Reference,
		FormID:        appt.FormID,
		Email:         appt.Email,
		SlotIDs:       appt.SlotIDs(),
		BookedSeats:   appt.BookedSeats,
		StartingAt:    appt.StartingAt(),
		EndingAt:      appt.EndingAt(),
		OccurredAt:    at.UTC(),
	}
}
