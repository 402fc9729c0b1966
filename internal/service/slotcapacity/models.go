package slotcapacity

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
)

// HoldRequest параметры временного удержания мест
type HoldRequest struct {
	SessionID      string
	SlotID         int64
	RequestedSeats int           // сколько мест хочет удержать сессия
	MaxSeats       int           // верхняя граница суммарного удержания сессии на слоте
	Timeout        time.Duration // 0 = значение по умолчанию
}

// HoldResult результат удержания
type HoldResult struct {
	Token                    *holdscheduler.Token
	GrantedSeats             int
	RemainingPlaces          int
	PotentialRemainingPlaces int
}

// ConfirmRequest параметры подтверждения записи
type ConfirmRequest struct {
	Appointment *domain.Appointment    // черновик: форма, пользователь, слоты (только ID), места
	Holds       []*holdscheduler.Token // удержания сессии на этих слотах; могут быть уже истекшими
}
