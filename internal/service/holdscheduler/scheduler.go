package holdscheduler

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type requestKind int

const (
	requestSchedule requestKind = iota
	requestCancel
)

type request struct {
	kind requestKind
	item *item
}

type shutdownRequest struct {
	ctx   context.Context
	reply chan []*Token
}

// Scheduler планировщик освобождения удержаний
// Одна горутина-актор владеет очередью; остальные общаются с ней через каналы
type Scheduler struct {
	requests chan request
	shutdown chan shutdownRequest
	done     chan struct{}

	closed   atomic.Bool
	pending  atomic.Int64
	inflight sync.WaitGroup

	logger Logger
}

// New создает и запускает планировщик
func New(logger Logger) *Scheduler {
	s := &Scheduler{
		requests: make(chan request),
		shutdown: make(chan shutdownRequest),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go s.run()
	return s
}

// Schedule планирует вызов fire(token) через delay
func (s *Scheduler) Schedule(token *Token, delay time.Duration, fire FireFunc) error {
	if token == nil || fire == nil {
		return ErrInvalidToken
	}
	if s.closed.Load() {
		return ErrSchedulerClosed
	}

	it := &item{token: token, at: time.Now().Add(delay), fire: fire}
	select {
	case s.requests <- request{kind: requestSchedule, item: it}:
		return nil
	case <-s.done:
		return ErrSchedulerClosed
	}
}

// Cancel забирает токен, не дожидаясь таймера
// Возвращает true, если токен ещё не сработал и не был отменён раньше
func (s *Scheduler) Cancel(token *Token) bool {
	if token == nil || !token.Claim() {
		return false
	}
	s.Forget(token)
	return true
}

// Forget убирает уже забранный токен из очереди
func (s *Scheduler) Forget(token *Token) {
	select {
	case s.requests <- request{kind: requestCancel, item: &item{token: token}}:
	case <-s.done:
	}
}

// Pending возвращает число запланированных, ещё не сработавших токенов
func (s *Scheduler) Pending() int {
	return int(s.pending.Load())
}

// Shutdown прекращает приём новых задач, продолжает срабатывать по таймерам,
// пока не истечёт ctx, и ждёт завершения запущенных освобождений.
// Незапущенные к концу ожидания токены возвращаются вызывающему для принудительной отмены
func (s *Scheduler) Shutdown(ctx context.Context) []*Token {
	if !s.closed.CompareAndSwap(false, true) {
		<-s.done
		return nil
	}

	reply := make(chan []*Token, 1)
	s.shutdown <- shutdownRequest{ctx: ctx, reply: reply}
	remaining := <-reply

	finished := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		s.logger.Warn("Shutdown: grace period expired with releases still running")
	}

	<-s.done
	if len(remaining) > 0 {
		s.logger.Warn("Shutdown: force-cancelled %d pending holds", len(remaining))
	}
	return remaining
}

func (s *Scheduler) run() {
	defer close(s.done)

	var (
		q        queue
		byToken  = make(map[*Token]*item)
		timer    = time.NewTimer(time.Hour)
		draining <-chan struct{}
		reply    chan []*Token
	)
	defer timer.Stop()

	for {
		if reply != nil && q.Len() == 0 {
			reply <- nil
			return
		}

		var timerC <-chan time.Time
		if q.Len() > 0 {
			timer.Reset(time.Until(q.peek().at))
			timerC = timer.C
		}

		select {
		case req := <-s.requests:
			switch req.kind {
			case requestSchedule:
				heap.Push(&q, req.item)
				byToken[req.item.token] = req.item
				s.pending.Add(1)
			case requestCancel:
				if it, ok := byToken[req.item.token]; ok {
					heap.Remove(&q, it.index)
					delete(byToken, it.token)
					s.pending.Add(-1)
				}
			}

		case <-timerC:
			now := time.Now()
			for q.Len() > 0 && !q.peek().at.After(now) {
				it := heap.Pop(&q).(*item)
				delete(byToken, it.token)
				s.pending.Add(-1)
				s.fire(it)
			}

		case sd := <-s.shutdown:
			draining = sd.ctx.Done()
			reply = sd.reply

		case <-draining:
			remaining := make([]*Token, 0, q.Len())
			for q.Len() > 0 {
				it := heap.Pop(&q).(*item)
				remaining = append(remaining, it.token)
			}
			s.pending.Store(0)
			reply <- remaining
			return
		}
	}
}

func (s *Scheduler) fire(it *item) {
	if it.token.IsClaimed() {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("fire: release of hold %s panicked: %v", it.token.ID, p)
			}
		}()
		it.fire(it.token)
	}()
}
