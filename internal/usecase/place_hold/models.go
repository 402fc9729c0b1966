package place_hold

import "time"

// Request модель запроса на удержание мест
type Request struct {
	SessionID string // идентификатор сессии пользователя
	SlotID    int64  // ID слота
	Seats     int    // сколько мест удержать; 0 = максимум формы
}

// Response модель ответа с выданным удержанием
type Response struct {
	HoldID                   string    // непрозрачный идентификатор удержания
	SlotID                   int64     // ID слота
	GrantedSeats             int       // сколько мест удержано (может быть меньше запрошенного)
	RemainingPlaces          int       // свободно без учёта удержаний
	PotentialRemainingPlaces int       // свободно с учётом удержаний
	ExpiresAt                time.Time // когда удержание истечёт
}
