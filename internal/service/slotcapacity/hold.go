package slotcapacity

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// PlaceHold временно удерживает места на слоте
// Выдаётся min(запрошено, свободно); если свободных мест нет, возвращается ErrBusy.
// Повторное удержание той же сессией на том же слоте заменяет прежнее,
// суммируя места не больше чем до MaxSeats
func (m *Manager) PlaceHold(ctx context.Context, req HoldRequest) (*HoldResult, error) {
	if req.SlotID <= 0 || req.RequestedSeats <= 0 || req.SessionID == "" {
		return nil, fmt.Errorf("%w: session=%q, slot=%d, seats=%d", ErrInvalidRequest, req.SessionID, req.SlotID, req.RequestedSeats)
	}
	maxSeats := req.MaxSeats
	if maxSeats <= 0 {
		maxSeats = req.RequestedSeats
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = m.opts.HoldTimeout
	}

	// 1. Снимок слота читаем до блокировки
	st, version := m.ref(req.SlotID)
	defer m.unref(req.SlotID, st)

	snap, err := m.snapshot(ctx, req.SlotID)
	if err != nil {
		m.metrics.RecordHoldPlaced(metrics.OutcomeFailed)
		return nil, err
	}

	// 2. Критическая секция слота: только арифметика и вызов планировщика
	unlock, err := m.lock(ctx, req.SlotID)
	if err != nil {
		m.metrics.RecordHoldPlaced(metrics.OutcomeFailed)
		return nil, err
	}
	defer unlock.Unlock()

	m.adopt(st, snap, version)
	if !st.isOpen {
		m.metrics.RecordHoldPlaced(metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: id=%d", ErrSlotClosed, req.SlotID)
	}

	// 3. Прежнее удержание сессии на этом слоте объединяем с новым
	// Свободные места считаем без мест прежнего удержания
	free := st.available()
	prevSeats := 0
	if prev := m.sessionHold(req.SessionID, req.SlotID); prev != nil && prev.Claim() {
		prevSeats = prev.Seats
		m.releaseHeld(req.SlotID, st, prev.Seats)
		m.scheduler.Forget(prev)
		m.dropHold(prev)
		m.metrics.RecordHoldReleased(metrics.ReasonCancelled)
	}

	total := min(prevSeats+min(req.RequestedSeats, free), maxSeats, st.available())
	if total == 0 {
		m.metrics.RecordHoldPlaced(metrics.OutcomeBusy)
		m.logger.Info("PlaceHold: slot id=%d has no seats, confirmed=%d, held=%d, max=%d",
			req.SlotID, st.confirmed, st.held, st.maxCapacity)
		return nil, fmt.Errorf("%w: slot id=%d", ErrBusy, req.SlotID)
	}

	// 4. Удерживаем и планируем освобождение
	st.held += total
	tok := holdscheduler.NewToken(req.SessionID, req.SlotID, total, m.clock.Now(), timeout)
	if err := m.scheduler.Schedule(tok, timeout, m.expire); err != nil {
		m.releaseHeld(req.SlotID, st, total)
		m.metrics.RecordHoldPlaced(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %v", ErrShuttingDown, err)
	}
	m.indexHold(tok)
	m.metrics.RecordHoldPlaced(metrics.OutcomeGranted)

	m.logger.Info("PlaceHold: session=%s holds %d seats on slot id=%d (requested=%d), confirmed=%d, held=%d, max=%d",
		req.SessionID, total, req.SlotID, req.RequestedSeats, st.confirmed, st.held, st.maxCapacity)

	return &HoldResult{
		Token:                    tok,
		GrantedSeats:             total,
		RemainingPlaces:          st.remaining(),
		PotentialRemainingPlaces: st.available(),
	}, nil
}

// CancelHold явно освобождает удержание (сессия ушла со страницы)
// Возвращает true, если удержание ещё действовало
func (m *Manager) CancelHold(ctx context.Context, tok *holdscheduler.Token) (bool, error) {
	if tok == nil {
		return false, ErrHoldNotFound
	}

	st, _ := m.ref(tok.SlotID)
	defer m.unref(tok.SlotID, st)

	unlock, err := m.lock(ctx, tok.SlotID)
	if err != nil {
		return false, err
	}
	defer unlock.Unlock()

	if !tok.Claim() {
		return false, nil
	}
	m.releaseHeld(tok.SlotID, st, tok.Seats)
	m.scheduler.Forget(tok)
	m.dropHold(tok)
	m.metrics.RecordHoldReleased(metrics.ReasonCancelled)

	m.logger.Info("CancelHold: session=%s released %d seats on slot id=%d", tok.SessionID, tok.Seats, tok.SlotID)
	return true, nil
}

// expire срабатывает по таймеру планировщика
func (m *Manager) expire(tok *holdscheduler.Token) {
	if m.release(tok, metrics.ReasonExpired) {
		m.logger.Info("expire: hold %s of session=%s on slot id=%d expired, %d seats returned",
			tok.ID, tok.SessionID, tok.SlotID, tok.Seats)
	}
}

// release освобождает места токена, если он ещё не был использован
// Ожидание блокировки без ограничения: освобождение не должно теряться
func (m *Manager) release(tok *holdscheduler.Token, reason string) bool {
	st, _ := m.ref(tok.SlotID)
	defer m.unref(tok.SlotID, st)

	unlock := m.locks.Acquire(tok.SlotID)
	defer unlock.Unlock()

	if !tok.Claim() {
		return false
	}
	m.releaseHeld(tok.SlotID, st, tok.Seats)
	m.dropHold(tok)
	m.metrics.RecordHoldReleased(reason)
	return true
}
