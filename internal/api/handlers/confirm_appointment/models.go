package confirm_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	confirmAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_appointment"
)

// ConfirmAppointmentRequest HTTP request model
type ConfirmAppointmentRequest struct {
	FormID       int64   `json:"formId"`
	SlotIDs      []int64 `json:"slotIds"`
	UserID       int64   `json:"userId,omitempty"`
	Email        string  `json:"email"`
	ConfirmEmail string  `json:"confirmEmail"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Seats        string  `json:"seats"` // как ввёл пользователь, например "2"
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	Reference   string  `json:"reference"`
	FormID      int64   `json:"formId"`
	SlotIDs     []int64 `json:"slotIds"`
	BookedSeats int     `json:"bookedSeats"`
	StartingAt  string  `json:"startingAt"`
	EndingAt    string  `json:"endingAt"`
	DateTaken   string  `json:"dateTaken"`
	CreatedAt   string  `json:"createdAt"`
}

// ViolationResponse нарушение правила формы
type ViolationResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// NotEligibleResponse ответ 422 со списком нарушений
type NotEligibleResponse struct {
	Code       int                 `json:"code"`
	Message    string              `json:"message"`
	Violations []ViolationResponse `json:"violations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmAppointmentRequest) ToUseCaseRequest(sessionID string) *confirmAppointment.Request {
	return &confirmAppointment.Request{
		SessionID:    sessionID,
		FormID:       r.FormID,
		SlotIDs:      r.SlotIDs,
		UserID:       r.UserID,
		Email:        r.Email,
		ConfirmEmail: r.ConfirmEmail,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Seats:        r.Seats,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		Reference:   resp.Reference,
		FormID:      resp.FormID,
		SlotIDs:     resp.SlotIDs,
		BookedSeats: resp.BookedSeats,
		StartingAt:  resp.StartingAt.Format(time.RFC3339),
		EndingAt:    resp.EndingAt.Format(time.RFC3339),
		DateTaken:   resp.DateTaken.Format(time.RFC3339),
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}

func FromViolations(status int, message string, violations []eligibility.Violation) *NotEligibleResponse {
	out := &NotEligibleResponse{
		Code:       status,
		Message:    message,
		Violations: make([]ViolationResponse, 0, len(violations)),
	}
	for _, v := range violations {
		out.Violations = append(out.Violations, ViolationResponse{Code: string(v.Code), Detail: v.Detail})
	}
	return out
}
