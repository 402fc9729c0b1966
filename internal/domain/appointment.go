package domain

import "time"

// Appointment represents a confirmed booking of one or more consecutive slots
type Appointment struct {
	ID          int64
	FormID      int64
	Reference   string
	UserID      int64
	Email       string
	FirstName   string
	LastName    string
	Slots       []Slot
	BookedSeats int
	IsCancelled bool
	DateTaken   time.Time

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StartingAt returns the start of the earliest slot of the appointment
func (a *Appointment) StartingAt() time.Time {
	var start time.Time
	for i, slot := range a.Slots {
		if i == 0 || slot.StartingAt.Before(start) {
			start = slot.StartingAt
		}
	}
	return start
}

// EndingAt returns the end of the latest slot of the appointment
func (a *Appointment) EndingAt() time.Time {
	var end time.Time
	for i, slot := range a.Slots {
		if i == 0 || slot.EndingAt.After(end) {
			end = slot.EndingAt
		}
	}
	return end
}

// IsActive returns true if the appointment still holds its seats
func (a *Appointment) IsActive() bool {
	return !a.IsCancelled
}

// IsExpired returns true if the appointment already ended at the given moment
func (a *Appointment) IsExpired(now time.Time) bool {
	if len(a.Slots) == 0 {
		return false
	}
	return a.EndingAt().Before(now)
}

// SlotIDs returns the identifiers of the appointment slots
func (a *Appointment) SlotIDs() []int64 {
	ids := make([]int64, len(a.Slots))
	for i, slot := range a.Slots {
		ids[i] = slot.ID
	}
	return ids
}

// AppointmentFilter фильтр для выборки истории записей пользователя
type AppointmentFilter struct {
	Email            string     // Обязательный параметр
	FormID           *int64     // Фильтр по форме (опционально)
	CategoryID       *int64     // Фильтр по категории формы (опционально)
	StartDate        *time.Time // Начало периода по дате слота (опционально)
	EndDate          *time.Time // Конец периода по дате слота (опционально)
	IncludeCancelled bool       // Включать ли отменённые записи
}
