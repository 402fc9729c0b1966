package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrAlreadyCancelled возвращается при повторной отмене записи
	ErrAlreadyCancelled = errors.New("appointment.repository: appointment already cancelled")

	// ErrCapacityExceeded возвращается, когда условное увеличение счётчика мест не прошло
	ErrCapacityExceeded = errors.New("appointment.repository: slot capacity exceeded")

	// ErrSlotNotFound возвращается, когда слот записи не найден
	ErrSlotNotFound = errors.New("appointment.repository: slot not found")

	// ErrSlotClosed возвращается, когда слот записи закрыт
	ErrSlotClosed = errors.New("appointment.repository: slot is closed")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("appointment.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
