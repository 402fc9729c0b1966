package holdscheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func newToken(slotID int64) *Token {
	return NewToken("session", slotID, 1, time.Now(), time.Minute)
}

func TestScheduler_FiresAfterDelay(t *testing.T) {
	s := New(logger.Nop())
	defer s.Shutdown(context.Background())

	fired := make(chan *Token, 1)
	tok := newToken(1)

	require.NoError(t, s.Schedule(tok, 10*time.Millisecond, func(tk *Token) {
		if tk.Claim() {
			fired <- tk
		}
	}))

	select {
	case got := <-fired:
		assert.Equal(t, tok.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("token did not fire")
	}
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_CancelBeforeFire(t *testing.T) {
	s := New(logger.Nop())
	defer s.Shutdown(context.Background())

	var fired atomic.Int32
	tok := newToken(1)
	require.NoError(t, s.Schedule(tok, 50*time.Millisecond, func(tk *Token) {
		if tk.Claim() {
			fired.Add(1)
		}
	}))

	assert.True(t, s.Cancel(tok))
	assert.False(t, s.Cancel(tok))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_FiresInTimeOrder(t *testing.T) {
	s := New(logger.Nop())
	defer s.Shutdown(context.Background())

	var (
		mu    sync.Mutex
		order []int64
		wg    sync.WaitGroup
	)
	record := func(tk *Token) {
		defer wg.Done()
		mu.Lock()
		order = append(order, tk.SlotID)
		mu.Unlock()
	}

	wg.Add(3)
	require.NoError(t, s.Schedule(newToken(3), 60*time.Millisecond, record))
	require.NoError(t, s.Schedule(newToken(1), 10*time.Millisecond, record))
	require.NoError(t, s.Schedule(newToken(2), 35*time.Millisecond, record))
	wg.Wait()

	assert.Equal(t, []int64{1, 2, 3}, order)
}

func TestScheduler_ExpiryAndCancelRaceHasSingleEffect(t *testing.T) {
	s := New(logger.Nop())
	defer s.Shutdown(context.Background())

	const rounds = 200
	var effects atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < rounds; i++ {
		tok := newToken(int64(i))
		wg.Add(1)
		var once sync.Once
		done := func() { once.Do(wg.Done) }

		require.NoError(t, s.Schedule(tok, time.Millisecond, func(tk *Token) {
			if tk.Claim() {
				effects.Add(1)
			}
			done()
		}))

		go func() {
			time.Sleep(time.Millisecond)
			if s.Cancel(tok) {
				effects.Add(1)
			}
			done()
		}()
	}
	wg.Wait()
	// Даём догореть таймерам, сработавшим после отмены
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(rounds), effects.Load())
}

func TestScheduler_RejectsAfterShutdown(t *testing.T) {
	s := New(logger.Nop())
	s.Shutdown(context.Background())

	err := s.Schedule(newToken(1), time.Millisecond, func(*Token) {})
	assert.ErrorIs(t, err, ErrSchedulerClosed)

	assert.Nil(t, s.Shutdown(context.Background()))
}

func TestScheduler_ShutdownDrainsDueAndReturnsRemainder(t *testing.T) {
	s := New(logger.Nop())

	var fired atomic.Int32
	fire := func(tk *Token) {
		if tk.Claim() {
			fired.Add(1)
		}
	}

	soon := newToken(1)
	late := newToken(2)
	require.NoError(t, s.Schedule(soon, 10*time.Millisecond, fire))
	require.NoError(t, s.Schedule(late, time.Hour, fire))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	remaining := s.Shutdown(ctx)

	assert.Equal(t, int32(1), fired.Load())
	require.Len(t, remaining, 1)
	assert.Equal(t, late.ID, remaining[0].ID)
	assert.False(t, remaining[0].IsClaimed())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_ShutdownWithEmptyQueueReturnsImmediately(t *testing.T) {
	s := New(logger.Nop())

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	assert.Empty(t, s.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)
}

func TestToken_IsLive(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	tok := NewToken("s", 1, 2, now, time.Minute)

	assert.True(t, tok.IsLive(now.Add(30*time.Second)))
	assert.False(t, tok.IsLive(now.Add(time.Minute)))

	require.True(t, tok.Claim())
	assert.False(t, tok.IsLive(now))
	assert.NotEmpty(t, tok.ID)
}
