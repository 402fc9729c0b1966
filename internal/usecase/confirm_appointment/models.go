package confirm_appointment

import "time"

// Request модель запроса на подтверждение записи
type Request struct {
	SessionID    string  // сессия, удерживающая места
	FormID       int64   // ID формы
	SlotIDs      []int64 // выбранные слоты, должны идти подряд
	UserID       int64   // ID пользователя (0 - анонимная запись)
	Email        string
	ConfirmEmail string
	FirstName    string
	LastName     string
	Seats        string // число мест в том виде, в каком его ввёл пользователь

	AllowOverbooking bool // запись администратором сверх удержания
}

// Response модель ответа с подтверждённой записью
type Response struct {
	ID          int64
	Reference   string // код записи для пользователя
	FormID      int64
	SlotIDs     []int64
	BookedSeats int
	StartingAt  time.Time
	EndingAt    time.Time
	DateTaken   time.Time
	CreatedAt   time.Time
}
