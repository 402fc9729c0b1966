package check_eligibility

import checkEligibility "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_eligibility"

// CheckEligibilityRequest HTTP request model
type CheckEligibilityRequest struct {
	SlotIDs              []int64 `json:"slotIds"`
	Email                string  `json:"email"`
	ConfirmEmail         string  `json:"confirmEmail"`
	Seats                string  `json:"seats"`
	ExcludeAppointmentID int64   `json:"excludeAppointmentId,omitempty"`
}

// ViolationResponse нарушение правила формы
type ViolationResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// EligibilityResponse HTTP response model
type EligibilityResponse struct {
	Eligible   bool                `json:"eligible"`
	Seats      int                 `json:"seats"`
	Violations []ViolationResponse `json:"violations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckEligibilityRequest) ToUseCaseRequest(formID int64, sessionID string) *checkEligibility.Request {
	return &checkEligibility.Request{
		SessionID:            sessionID,
		FormID:               formID,
		SlotIDs:              r.SlotIDs,
		Email:                r.Email,
		ConfirmEmail:         r.ConfirmEmail,
		Seats:                r.Seats,
		ExcludeAppointmentID: r.ExcludeAppointmentID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkEligibility.Response) *EligibilityResponse {
	out := &EligibilityResponse{
		Eligible:   resp.Eligible,
		Seats:      resp.Seats,
		Violations: make([]ViolationResponse, 0, len(resp.Violations)),
	}
	for _, v := range resp.Violations {
		out.Violations = append(out.Violations, ViolationResponse{Code: string(v.Code), Detail: v.Detail})
	}
	return out
}
