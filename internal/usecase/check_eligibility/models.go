package check_eligibility

import "github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"

// Request кандидат на запись; ничего не удерживается и не сохраняется
type Request struct {
	SessionID    string // если указан, учитываются удержания сессии
	FormID       int64
	SlotIDs      []int64
	Email        string
	ConfirmEmail string
	Seats        string

	ExcludeAppointmentID int64 // редактируемая запись, не учитывается в истории
}

// Response результат проверки
type Response struct {
	Eligible   bool
	Violations []eligibility.Violation
	Seats      int // разобранное число мест
}
