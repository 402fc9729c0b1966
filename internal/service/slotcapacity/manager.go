package slotcapacity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

type sessionSlot struct {
	sessionID string
	slotID    int64
}

// Manager управляет вместимостью слотов: удержания, подтверждения, отмены
// Инвариант: для каждого слота confirmed + held <= maxCapacity
type Manager struct {
	slots     SlotReader
	store     AppointmentStore
	locks     *slotlock.Registry
	scheduler *holdscheduler.Scheduler
	metrics   MetricsRecorder
	clock     TimeProvider
	logger    Logger
	opts      Options

	mu        sync.Mutex
	states    map[int64]*slotState
	holds     map[string]*holdscheduler.Token
	bySession map[sessionSlot]*holdscheduler.Token
}

// NewManager создает менеджер вместимости. metrics может быть nil
func NewManager(
	slots SlotReader,
	store AppointmentStore,
	locks *slotlock.Registry,
	scheduler *holdscheduler.Scheduler,
	metrics MetricsRecorder,
	opts Options,
	logger Logger,
) *Manager {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Manager{
		slots:     slots,
		store:     store,
		locks:     locks,
		scheduler: scheduler,
		metrics:   metrics,
		clock:     &RealTimeProvider{},
		logger:    logger,
		opts:      opts.withDefaults(),
		states:    make(map[int64]*slotState),
		holds:     make(map[string]*holdscheduler.Token),
		bySession: make(map[sessionSlot]*holdscheduler.Token),
	}
}

// SetTimeProvider подменяет источник времени (для тестов)
func (m *Manager) SetTimeProvider(clock TimeProvider) {
	m.clock = clock
}

func (m *Manager) lock(ctx context.Context, slotID int64) (slotlock.Unlocker, error) {
	lockCtx, cancel := context.WithTimeout(ctx, m.opts.LockWait)
	defer cancel()

	unlock, err := m.locks.AcquireContext(lockCtx, slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%d: %v", ErrLockTimeout, slotID, err)
	}
	return unlock, nil
}

func (m *Manager) lockAll(ctx context.Context, slotIDs []int64) (slotlock.Unlocker, error) {
	lockCtx, cancel := context.WithTimeout(ctx, m.opts.LockWait)
	defer cancel()

	unlock, err := m.locks.AcquireAll(lockCtx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: slots=%v: %v", ErrLockTimeout, slotIDs, err)
	}
	return unlock, nil
}

func (m *Manager) snapshot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	slot, err := m.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrSlotNotFound, slotID)
		}
		return nil, fmt.Errorf("%w: failed to read slot id=%d: %v", ErrInternal, slotID, err)
	}
	return slot, nil
}

// Availability возвращает счётчики слота с учётом удержаний этого процесса
func (m *Manager) Availability(ctx context.Context, slotID int64) (*domain.SlotAvailability, error) {
	st, version := m.ref(slotID)
	defer m.unref(slotID, st)

	snap, err := m.snapshot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	unlock, err := m.lock(ctx, slotID)
	if err != nil {
		return nil, err
	}
	defer unlock.Unlock()

	m.adopt(st, snap, version)

	return &domain.SlotAvailability{
		SlotID:                   slotID,
		MaxCapacity:              st.maxCapacity,
		ConfirmedSeats:           st.confirmed,
		PotentialHeldSeats:       st.held,
		RemainingPlaces:          st.remaining(),
		PotentialRemainingPlaces: st.available(),
	}, nil
}

// RemainingPlaces maxCapacity - confirmed: сколько мест новый посетитель может в итоге забронировать
func (m *Manager) RemainingPlaces(ctx context.Context, slotID int64) (int, error) {
	a, err := m.Availability(ctx, slotID)
	if err != nil {
		return 0, err
	}
	return a.RemainingPlaces, nil
}

// PotentialRemainingPlaces maxCapacity - confirmed - held: сколько мест можно удержать прямо сейчас
func (m *Manager) PotentialRemainingPlaces(ctx context.Context, slotID int64) (int, error) {
	a, err := m.Availability(ctx, slotID)
	if err != nil {
		return 0, err
	}
	return a.PotentialRemainingPlaces, nil
}

// LookupHold ищет живое удержание по непрозрачному идентификатору токена
func (m *Manager) LookupHold(tokenID string) (*holdscheduler.Token, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tok, ok := m.holds[tokenID]
	if !ok || tok.IsClaimed() {
		return nil, false
	}
	return tok, true
}

// SessionHolds живые удержания сессии на указанных слотах
func (m *Manager) SessionHolds(sessionID string, slotIDs []int64) []*holdscheduler.Token {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*holdscheduler.Token, 0, len(slotIDs))
	for _, id := range slotIDs {
		if tok, ok := m.bySession[sessionSlot{sessionID, id}]; ok && !tok.IsClaimed() {
			out = append(out, tok)
		}
	}
	return out
}

// ActiveHolds число живых удержаний
func (m *Manager) ActiveHolds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.holds)
}

// TrackedSlots число слотов, для которых хранится состояние в памяти
func (m *Manager) TrackedSlots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

func (m *Manager) indexHold(tok *holdscheduler.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holds[tok.ID] = tok
	m.bySession[sessionSlot{tok.SessionID, tok.SlotID}] = tok
}

func (m *Manager) dropHold(tok *holdscheduler.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holds, tok.ID)
	key := sessionSlot{tok.SessionID, tok.SlotID}
	if m.bySession[key] == tok {
		delete(m.bySession, key)
	}
}

func (m *Manager) sessionHold(sessionID string, slotID int64) *holdscheduler.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bySession[sessionSlot{sessionID, slotID}]
}

// Shutdown останавливает планировщик и возвращает места удержаний, не успевших истечь
func (m *Manager) Shutdown(ctx context.Context) int {
	remaining := m.scheduler.Shutdown(ctx)
	released := 0
	for _, tok := range remaining {
		if m.release(tok, metrics.ReasonShutdown) {
			released++
		}
	}
	m.logger.Info("Shutdown: released %d outstanding holds", released)
	return released
}

type noopMetrics struct{}

func (noopMetrics) RecordHoldPlaced(string)   {}
func (noopMetrics) RecordHoldReleased(string) {}
func (noopMetrics) RecordConfirmation(string) {}
func (noopMetrics) RecordCancellation()       {}
