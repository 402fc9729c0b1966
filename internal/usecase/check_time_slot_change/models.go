package check_time_slot_change

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// DefaultHorizonDays на сколько дней вперёд проверяются созданные слоты, если To не указан
const DefaultHorizonDays = 90

// Request изменённое определение временного слота рабочего дня
type Request struct {
	FormID   int64
	TimeSlot domain.TimeSlotDefinition
	Shift    bool      // изменение сдвигает все последующие слоты дня
	From     time.Time // начало проверяемого периода; по умолчанию сегодня
	To       time.Time // конец периода; по умолчанию From + DefaultHorizonDays
}

// Response затронутые слоты
type Response struct {
	Impacted              bool    // хотя бы на одном затронутом слоте есть подтверждённые записи
	ImpactedSlotIDs       []int64 // слоты, которые придётся пересоздать
	SlotsWithAppointments []int64 // из них слоты с подтверждёнными записями
}
