package holdscheduler

import "errors"

var (
	// ErrSchedulerClosed возвращается при планировании после начала остановки
	ErrSchedulerClosed = errors.New("holdscheduler: scheduler is shut down")

	// ErrInvalidToken возвращается при попытке запланировать пустой токен
	ErrInvalidToken = errors.New("holdscheduler: invalid token")
)
