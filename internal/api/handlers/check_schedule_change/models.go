package check_schedule_change

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	checkScheduleChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_schedule_change"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ScheduleChangeRequest HTTP request model
type ScheduleChangeRequest struct {
	OpenDays            []int                    `json:"openDays"` // 0 = воскресенье
	TimeStart           string                   `json:"timeStart"`
	TimeEnd             string                   `json:"timeEnd"`
	SlotDurationMinutes int                      `json:"slotDurationMinutes"`
	WorkingDays         []handlers.WorkingDayDTO `json:"workingDays,omitempty"`
}

// ImpactResponse HTTP response model
type ImpactResponse struct {
	Impacted          bool    `json:"impacted"`
	RemovedDays       []int   `json:"removedDays"`
	DurationChanged   bool    `json:"durationChanged"`
	TimeWindowChanged bool    `json:"timeWindowChanged"`
	ImpactedSlotIDs   []int64 `json:"impactedSlotIds"`
	MismatchedSlotIDs []int64 `json:"mismatchedSlotIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ScheduleChangeRequest) ToUseCaseRequest(formID int64) (*checkScheduleChange.Request, error) {
	req := &checkScheduleChange.Request{
		FormID:              formID,
		OpenDays:            make([]time.Weekday, 0, len(r.OpenDays)),
		SlotDurationMinutes: r.SlotDurationMinutes,
	}

	for _, d := range r.OpenDays {
		day, err := handlers.ParseWeekday(d)
		if err != nil {
			return nil, err
		}
		req.OpenDays = append(req.OpenDays, day)
	}

	var err error
	if req.TimeStart, err = types.NewTimeStringFromString(r.TimeStart); err != nil {
		return nil, err
	}
	if req.TimeEnd, err = types.NewTimeStringFromString(r.TimeEnd); err != nil {
		return nil, err
	}

	for _, wd := range r.WorkingDays {
		day, err := wd.ToDomain()
		if err != nil {
			return nil, err
		}
		req.WorkingDays = append(req.WorkingDays, day)
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkScheduleChange.Response) *ImpactResponse {
	out := &ImpactResponse{
		Impacted:          resp.Impacted,
		RemovedDays:       make([]int, 0, len(resp.RemovedDays)),
		DurationChanged:   resp.DurationChanged,
		TimeWindowChanged: resp.TimeWindowChanged,
		ImpactedSlotIDs:   nonNil(resp.ImpactedSlotIDs),
		MismatchedSlotIDs: nonNil(resp.MismatchedSlotIDs),
	}
	for _, d := range resp.RemovedDays {
		out.RemovedDays = append(out.RemovedDays, int(d))
	}
	return out
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
