package cancel_appointment

import "time"

// Request модель запроса на отмену записи
// Запись ищется по ID, если он указан, иначе по коду
type Request struct {
	AppointmentID int64
	Reference     string
	Email         string // если указан, должен совпадать с email записи
}

// Response модель ответа с отменённой записью
type Response struct {
	ID          int64
	Reference   string
	SlotIDs     []int64
	BookedSeats int
	CancelledAt time.Time
}
