package check_schedule_change

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	checkScheduleChange "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_schedule_change"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestToUseCaseRequest(t *testing.T) {
	body := ScheduleChangeRequest{
		OpenDays:            []int{1, 2, 3},
		TimeStart:           "09:00",
		TimeEnd:             "18:00",
		SlotDurationMinutes: 30,
		WorkingDays: []handlers.WorkingDayDTO{{
			Weekday:   1,
			TimeSlots: []handlers.TimeSlotDTO{{StartTime: "09:00", EndTime: "09:30", IsOpen: true, MaxCapacity: 2}},
		}},
	}

	req, err := body.ToUseCaseRequest(4)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, req.OpenDays)
	assert.Equal(t, types.TimeString("18:00"), req.TimeEnd)
	require.Len(t, req.WorkingDays, 1)
	assert.Equal(t, time.Monday, req.WorkingDays[0].TimeSlots[0].Weekday)

	body.OpenDays = []int{7}
	_, err = body.ToUseCaseRequest(4)
	assert.Error(t, err)

	body.OpenDays = nil
	body.TimeStart = "9h"
	_, err = body.ToUseCaseRequest(4)
	assert.Error(t, err)
}

func TestFromUseCaseResponse_EmptyListsAreArrays(t *testing.T) {
	out := FromUseCaseResponse(&checkScheduleChange.Response{
		Impacted:        true,
		RemovedDays:     []time.Weekday{time.Thursday, time.Friday},
		DurationChanged: true,
	})
	assert.Equal(t, []int{4, 5}, out.RemovedDays)
	assert.NotNil(t, out.ImpactedSlotIDs)
	assert.NotNil(t, out.MismatchedSlotIDs)
}
