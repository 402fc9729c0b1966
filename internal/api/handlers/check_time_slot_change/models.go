package check_time_slot_change

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	checkTimeSlotChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_time_slot_change"
)

// TimeSlotChangeRequest HTTP request model
type TimeSlotChangeRequest struct {
	TimeSlot handlers.TimeSlotDTO `json:"timeSlot"`
	Shift    bool                 `json:"shift"`
	From     string               `json:"from,omitempty"` // "2025-10-15"
	To       string               `json:"to,omitempty"`
}

// TimeSlotImpactResponse HTTP response model
type TimeSlotImpactResponse struct {
	Impacted              bool    `json:"impacted"`
	ImpactedSlotIDs       []int64 `json:"impactedSlotIds"`
	SlotsWithAppointments []int64 `json:"slotsWithAppointments"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TimeSlotChangeRequest) ToUseCaseRequest(formID int64) (*checkTimeSlotChange.Request, error) {
	def, err := r.TimeSlot.ToDomain()
	if err != nil {
		return nil, err
	}

	req := &checkTimeSlotChange.Request{FormID: formID, TimeSlot: def, Shift: r.Shift}
	if r.From != "" {
		if req.From, err = time.ParseInLocation(domain.DateFormat, r.From, time.Local); err != nil {
			return nil, err
		}
	}
	if r.To != "" {
		if req.To, err = time.ParseInLocation(domain.DateFormat, r.To, time.Local); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkTimeSlotChange.Response) *TimeSlotImpactResponse {
	out := &TimeSlotImpactResponse{
		Impacted:              resp.Impacted,
		ImpactedSlotIDs:       resp.ImpactedSlotIDs,
		SlotsWithAppointments: resp.SlotsWithAppointments,
	}
	if out.ImpactedSlotIDs == nil {
		out.ImpactedSlotIDs = []int64{}
	}
	if out.SlotsWithAppointments == nil {
		out.SlotsWithAppointments = []int64{}
	}
	return out
}
