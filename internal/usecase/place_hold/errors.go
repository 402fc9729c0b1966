package place_hold

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("place_hold: slot not found")

	// ErrRulesNotFound возвращается, когда для формы слота не настроены правила
	ErrRulesNotFound = errors.New("place_hold: form rules not found")

	// ErrSlotClosed возвращается для закрытого слота
	ErrSlotClosed = errors.New("place_hold: slot is closed")

	// ErrNoSeatsAvailable возвращается, когда все места слота заняты или удержаны
	ErrNoSeatsAvailable = errors.New("place_hold: no seats available")

	// ErrSlotBusy возвращается, когда слот слишком долго занят другими запросами
	ErrSlotBusy = errors.New("place_hold: slot is busy, try again")

	// ErrShuttingDown возвращается во время остановки сервиса
	ErrShuttingDown = errors.New("place_hold: service is shutting down")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("place_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("place_hold: internal error")
)
