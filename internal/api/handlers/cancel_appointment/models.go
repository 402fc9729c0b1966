package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Email string `json:"email"`
}

// CancelledAppointmentResponse HTTP response model
type CancelledAppointmentResponse struct {
	ID          int64   `json:"id"`
	Reference   string  `json:"reference"`
	SlotIDs     []int64 `json:"slotIds"`
	BookedSeats int     `json:"bookedSeats"`
	CancelledAt string  `json:"cancelledAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(appointmentID int64, reference string) *cancelAppointment.Request {
	return &cancelAppointment.Request{
		AppointmentID: appointmentID,
		Reference:     reference,
		Email:         r.Email,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelledAppointmentResponse {
	return &CancelledAppointmentResponse{
		ID:          resp.ID,
		Reference:   resp.Reference,
		SlotIDs:     resp.SlotIDs,
		BookedSeats: resp.BookedSeats,
		CancelledAt: resp.CancelledAt.Format(time.RFC3339),
	}
}
