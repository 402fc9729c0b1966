package slotcapacity

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Options параметры менеджера
type Options struct {
	LockWait    time.Duration // максимальное ожидание блокировки слота
	HoldTimeout time.Duration // время жизни удержания по умолчанию
}

func (o Options) withDefaults() Options {
	if o.LockWait <= 0 {
		o.LockWait = 2 * time.Second
	}
	if o.HoldTimeout <= 0 {
		o.HoldTimeout = domain.DefaultHoldTimeoutSeconds * time.Second
	}
	return o
}
