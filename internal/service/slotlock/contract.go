package slotlock

// Unlocker освобождает полученную блокировку. Повторный вызов ничего не делает
type Unlocker interface {
	Unlock()
}

// WaitObserver получает время ожидания блокировки в секундах
type WaitObserver interface {
	ObserveSlotLockWait(seconds float64)
}
