package check_schedule_change

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request предлагаемое новое расписание формы
type Request struct {
	FormID              int64
	OpenDays            []time.Weekday
	TimeStart           types.TimeString
	TimeEnd             types.TimeString
	SlotDurationMinutes int
	WorkingDays         []domain.WorkingDay // если указаны, слоты с записями сверяются с ними
}

// Response результат анализа влияния
type Response struct {
	Impacted          bool
	RemovedDays       []time.Weekday
	DurationChanged   bool
	TimeWindowChanged bool
	ImpactedSlotIDs   []int64 // слоты с записями на закрытых днях
	MismatchedSlotIDs []int64 // слоты с записями без точного соответствия в новых рабочих днях
}
