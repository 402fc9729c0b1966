package slotlock

import "errors"

// ErrSlotLockTimeout возвращается, если блокировку слота не удалось получить до отмены контекста
var ErrSlotLockTimeout = errors.New("slotlock: timed out waiting for slot lock")
