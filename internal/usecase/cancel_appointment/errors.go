package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("cancel_appointment: appointment already cancelled")

	// ErrAccessDenied возвращается, когда email не совпадает с email записи
	ErrAccessDenied = errors.New("cancel_appointment: access denied")

	// ErrAppointmentPassed возвращается, когда запись уже закончилась
	ErrAppointmentPassed = errors.New("cancel_appointment: appointment already passed")

	// ErrSlotBusy возвращается, когда слоты записи слишком долго заняты другими запросами
	ErrSlotBusy = errors.New("cancel_appointment: slot is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
