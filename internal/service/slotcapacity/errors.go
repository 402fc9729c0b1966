package slotcapacity

import "errors"

var (
	// ErrBusy возвращается, когда для удержания не осталось ни одного места
	ErrBusy = errors.New("slotcapacity: no seats available")

	// ErrLockTimeout возвращается, когда блокировку слота не удалось получить за отведённое время
	ErrLockTimeout = errors.New("slotcapacity: slot is busy, try again")

	// ErrCapacityExceeded возвращается, когда при подтверждении мест больше не хватает
	ErrCapacityExceeded = errors.New("slotcapacity: capacity exceeded")

	// ErrSlotClosed возвращается для закрытого слота
	ErrSlotClosed = errors.New("slotcapacity: slot is closed")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slotcapacity: slot not found")

	// ErrHoldNotFound возвращается, когда удержание не найдено или уже истекло
	ErrHoldNotFound = errors.New("slotcapacity: hold not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("slotcapacity: appointment not found")

	// ErrAlreadyCancelled возвращается при повторной отмене записи
	ErrAlreadyCancelled = errors.New("slotcapacity: appointment already cancelled")

	// ErrShuttingDown возвращается, когда планировщик удержаний уже остановлен
	ErrShuttingDown = errors.New("slotcapacity: service is shutting down")

	// ErrInvalidRequest возвращается при некорректных параметрах операции
	ErrInvalidRequest = errors.New("slotcapacity: invalid request")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("slotcapacity: internal error")
)
