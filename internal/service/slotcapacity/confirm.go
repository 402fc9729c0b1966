package slotcapacity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// Confirm подтверждает запись на один или несколько слотов
// Блокирует слоты по возрастанию ID, забирает удержания сессии, повторно проверяет вместимость
// и одним атомарным вызовом хранилища увеличивает счётчики и сохраняет запись.
// Удержания забираются в любом случае: при ErrCapacityExceeded клиент начинает выбор слота заново
func (m *Manager) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Appointment, error) {
	appt := req.Appointment
	if appt == nil || len(appt.Slots) == 0 || appt.BookedSeats <= 0 {
		return nil, fmt.Errorf("%w: appointment must have slots and seats", ErrInvalidRequest)
	}

	slotIDs := appt.SlotIDs()
	sort.Slice(slotIDs, func(i, j int) bool { return slotIDs[i] < slotIDs[j] })

	// 1. Ссылки на состояние слотов, чтобы оно не было удалено во время операции
	states := make(map[int64]*slotState, len(slotIDs))
	for _, id := range slotIDs {
		if _, ok := states[id]; ok {
			continue
		}
		st, _ := m.ref(id)
		states[id] = st
	}
	defer func() {
		for id, st := range states {
			m.unref(id, st)
		}
	}()

	// 2. Блокируем все слоты в едином порядке
	unlock, err := m.lockAll(ctx, slotIDs)
	if err != nil {
		m.metrics.RecordConfirmation(metrics.OutcomeFailed)
		return nil, err
	}
	defer unlock.Unlock()

	// 3. Забираем удержания (идемпотентно: истекший или отменённый токен пропускается)
	for _, tok := range req.Holds {
		st, ok := states[tok.SlotID]
		if !ok || !tok.Claim() {
			continue
		}
		m.releaseHeld(tok.SlotID, st, tok.Seats)
		m.scheduler.Forget(tok)
		m.dropHold(tok)
		m.metrics.RecordHoldReleased(metrics.ReasonConfirmed)
	}

	// 4. Повторная проверка по счётчикам в памяти, включая чужие удержания
	for _, id := range slotIDs {
		st := states[id]
		if !st.loaded {
			continue
		}
		if st.confirmed+appt.BookedSeats+st.held > st.maxCapacity {
			m.metrics.RecordConfirmation(metrics.OutcomeRejected)
			m.logger.Warn("Confirm: slot id=%d cannot take %d seats, confirmed=%d, held=%d, max=%d",
				id, appt.BookedSeats, st.confirmed, st.held, st.maxCapacity)
			return nil, fmt.Errorf("%w: slot id=%d", ErrCapacityExceeded, id)
		}
	}

	// 5. Единственный вызов хранилища под блокировкой: условное увеличение счётчиков и вставка записи
	saved, err := m.store.SaveConfirmed(ctx, appt)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrCapacityExceeded):
			m.metrics.RecordConfirmation(metrics.OutcomeRejected)
			m.logger.Warn("Confirm: storage rejected %d seats on slots=%v", appt.BookedSeats, slotIDs)
			return nil, fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
		case errors.Is(err, appointmentRepo.ErrSlotClosed):
			m.metrics.RecordConfirmation(metrics.OutcomeRejected)
			return nil, fmt.Errorf("%w: %v", ErrSlotClosed, err)
		case errors.Is(err, appointmentRepo.ErrSlotNotFound):
			m.metrics.RecordConfirmation(metrics.OutcomeRejected)
			return nil, fmt.Errorf("%w: %v", ErrSlotNotFound, err)
		}
		m.metrics.RecordConfirmation(metrics.OutcomeFailed)
		m.logger.Error("Confirm: failed to save appointment on slots=%v: %v", slotIDs, err)
		return nil, fmt.Errorf("%w: failed to save appointment: %v", ErrInternal, err)
	}

	// 6. Счётчики в памяти берём из результата хранилища
	for i := range saved.Slots {
		if st, ok := states[saved.Slots[i].ID]; ok {
			m.apply(st, &saved.Slots[i])
		}
	}
	m.metrics.RecordConfirmation(metrics.OutcomeGranted)

	m.logger.Info("Confirm: appointment id=%d reference=%s confirmed %d seats on slots=%v",
		saved.ID, saved.Reference, saved.BookedSeats, slotIDs)
	return saved, nil
}

// CancelAppointment логически отменяет подтверждённую запись и возвращает её места
func (m *Manager) CancelAppointment(ctx context.Context, appointmentID int64) (*domain.Appointment, error) {
	// 1. Узнаём слоты записи до блокировки
	current, err := m.store.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appointmentID)
		}
		return nil, fmt.Errorf("%w: failed to get appointment id=%d: %v", ErrInternal, appointmentID, err)
	}
	if current.IsCancelled {
		return nil, fmt.Errorf("%w: id=%d", ErrAlreadyCancelled, appointmentID)
	}

	slotIDs := current.SlotIDs()
	states := make(map[int64]*slotState, len(slotIDs))
	for _, id := range slotIDs {
		if _, ok := states[id]; ok {
			continue
		}
		st, _ := m.ref(id)
		states[id] = st
	}
	defer func() {
		for id, st := range states {
			m.unref(id, st)
		}
	}()

	// 2. Под блокировкой всех слотов атомарно помечаем запись отменённой и уменьшаем счётчики
	unlock, err := m.lockAll(ctx, slotIDs)
	if err != nil {
		return nil, err
	}
	defer unlock.Unlock()

	cancelled, err := m.store.CancelConfirmed(ctx, appointmentID, m.clock.Now())
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAlreadyCancelled):
			return nil, fmt.Errorf("%w: id=%d", ErrAlreadyCancelled, appointmentID)
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appointmentID)
		}
		m.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
	}

	for i := range cancelled.Slots {
		if st, ok := states[cancelled.Slots[i].ID]; ok {
			m.apply(st, &cancelled.Slots[i])
		}
	}
	m.metrics.RecordCancellation()

	m.logger.Info("CancelAppointment: appointment id=%d cancelled, %d seats returned on slots=%v",
		appointmentID, cancelled.BookedSeats, slotIDs)
	return cancelled, nil
}
