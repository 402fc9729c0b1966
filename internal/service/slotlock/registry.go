package slotlock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// entry мьютекс одного слота
// ch с буфером 1: значение в канале означает, что слот заблокирован.
// Канал вместо sync.Mutex нужен, чтобы ожидание можно было прервать контекстом
type entry struct {
	ch   chan struct{}
	refs int // число владельцев и ожидающих; при 0 запись удаляется
}

// Registry реестр блокировок по идентификатору слота
// Записи создаются при первом обращении и удаляются, когда их никто не держит и не ждёт,
// поэтому размер реестра ограничен числом слотов, с которыми работают прямо сейчас
type Registry struct {
	mu       sync.Mutex
	entries  map[int64]*entry
	observer WaitObserver
}

// NewRegistry создает реестр. observer может быть nil
func NewRegistry(observer WaitObserver) *Registry {
	return &Registry{
		entries:  make(map[int64]*entry),
		observer: observer,
	}
}

// Acquire блокирует слот, ожидая без ограничения по времени
func (r *Registry) Acquire(slotID int64) Unlocker {
	e := r.ref(slotID)
	start := time.Now()
	e.ch <- struct{}{}
	r.observe(start)
	return &handle{registry: r, slotID: slotID, entry: e}
}

// AcquireContext блокирует слот, ожидая не дольше, чем живёт ctx
func (r *Registry) AcquireContext(ctx context.Context, slotID int64) (Unlocker, error) {
	e := r.ref(slotID)
	start := time.Now()

	select {
	case e.ch <- struct{}{}:
		r.observe(start)
		return &handle{registry: r, slotID: slotID, entry: e}, nil
	case <-ctx.Done():
		r.unref(slotID, e)
		return nil, fmt.Errorf("%w: slot id=%d: %v", ErrSlotLockTimeout, slotID, ctx.Err())
	}
}

// AcquireAll блокирует несколько слотов в порядке возрастания идентификаторов
// Единый порядок исключает взаимную блокировку между подтверждениями нескольких слотов
func (r *Registry) AcquireAll(ctx context.Context, slotIDs []int64) (Unlocker, error) {
	ids := uniqueSorted(slotIDs)
	acquired := make(multiHandle, 0, len(ids))

	for _, id := range ids {
		h, err := r.AcquireContext(ctx, id)
		if err != nil {
			acquired.Unlock()
			return nil, err
		}
		acquired = append(acquired, h)
	}
	return acquired, nil
}

// Size возвращает число живых записей в реестре
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) ref(slotID int64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[slotID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		r.entries[slotID] = e
	}
	e.refs++
	return e
}

func (r *Registry) unref(slotID int64, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(r.entries, slotID)
	}
}

func (r *Registry) observe(start time.Time) {
	if r.observer != nil {
		r.observer.ObserveSlotLockWait(time.Since(start).Seconds())
	}
}

type handle struct {
	registry *Registry
	slotID   int64
	entry    *entry
	once     sync.Once
}

func (h *handle) Unlock() {
	h.once.Do(func() {
		<-h.entry.ch
		h.registry.unref(h.slotID, h.entry)
	})
}

// multiHandle освобождает блокировки в обратном порядке
type multiHandle []Unlocker

func (m multiHandle) Unlock() {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].Unlock()
	}
}

func uniqueSorted(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
