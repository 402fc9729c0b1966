package holdscheduler

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Token одноразовый токен временного удержания мест
// Ровно один из участников (таймер, отмена сессией, подтверждение, остановка)
// успешно выполняет Claim и применяет эффект
type Token struct {
	ID        string
	SessionID string
	SlotID    int64
	Seats     int
	CreatedAt time.Time
	ExpiresAt time.Time

	claimed atomic.Bool
}

// NewToken создает токен со случайным непрозрачным идентификатором
func NewToken(sessionID string, slotID int64, seats int, now time.Time, ttl time.Duration) *Token {
	return &Token{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		SlotID:    slotID,
		Seats:     seats,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Claim атомарно помечает токен использованным; true только для первого вызова
func (t *Token) Claim() bool {
	return t.claimed.CompareAndSwap(false, true)
}

// IsClaimed возвращает true, если токен уже сработал или отменён
func (t *Token) IsClaimed() bool {
	return t.claimed.Load()
}

// IsLive возвращает true, если удержание ещё действует на момент now
func (t *Token) IsLive(now time.Time) bool {
	return !t.IsClaimed() && now.Before(t.ExpiresAt)
}
