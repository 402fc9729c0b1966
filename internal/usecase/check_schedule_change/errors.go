package check_schedule_change

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у формы нет текущего расписания
	ErrScheduleNotFound = errors.New("check_schedule_change: week schedule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_schedule_change: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_schedule_change: internal error")
)
