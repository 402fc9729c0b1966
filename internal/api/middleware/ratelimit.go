package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничитель частоты запросов по ключу (сессия или адрес клиента)
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry

	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewRateLimiter создает ограничитель; ключи без запросов дольше idleTTL удаляются Cleanup
func NewRateLimiter(rps float64, burst int, idleTTL time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 5 * time.Minute
	}
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Allow резервирует токен для ключа; при отказе возвращает, через сколько повторить
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	res := e.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

// Cleanup удаляет давно не использовавшиеся ключи
func (l *RateLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len число отслеживаемых ключей
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor периодически вызывает Cleanup, пока ctx не отменён
func (l *RateLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = l.idleTTL
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}

// Middleware отклоняет запросы сверх лимита с кодом 429 и заголовком Retry-After
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := l.Allow(clientKey(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey сессия из контекста, иначе IP клиента
func clientKey(r *http.Request) string {
	if sessionID, ok := GetSessionID(r.Context()); ok {
		return "session:" + sessionID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
