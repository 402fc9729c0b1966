package eligibility

import "strings"

// Code стабильный код нарушения правил записи; текст для пользователя подбирается по коду снаружи
type Code string

const (
	CodeEmailEmpty            Code = "email_empty"
	CodeConfirmEmailEmpty     Code = "confirm_email_empty"
	CodeEmailMismatch         Code = "email_mismatch"
	CodeDateInPast            Code = "date_in_past"
	CodeMinDaysBetween        Code = "min_days_between_appointments"
	CodeMinDaysSinceLastTaken Code = "min_days_since_last_taken"
	CodeMaxPerPeriod          Code = "max_appointments_per_period"
	CodeMaxPerCategory        Code = "max_appointments_per_category"
	CodeSeatsEmpty            Code = "seats_empty"
	CodeSeatsFormat           Code = "seats_format"
	CodeSeatsExceeded         Code = "seats_exceeded"
	CodeSlotsNotConsecutive   Code = "slots_not_consecutive"
)

// Violation нарушение правила
type Violation struct {
	Code   Code
	Detail string
}

// Result итог проверки кандидата
type Result struct {
	Violations []Violation
	Seats      int // разобранное число мест (1, если форма не допускает нескольких)
}

// OK возвращает true, если нарушений нет
func (r *Result) OK() bool {
	return len(r.Violations) == 0
}

// Codes возвращает коды нарушений в порядке проверки
func (r *Result) Codes() []Code {
	codes := make([]Code, len(r.Violations))
	for i, v := range r.Violations {
		codes[i] = v.Code
	}
	return codes
}

// Has возвращает true, если среди нарушений есть code
func (r *Result) Has(code Code) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func (r *Result) String() string {
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = string(v.Code)
	}
	return strings.Join(parts, ",")
}
