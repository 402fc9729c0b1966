package slotcapacity

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// slotState счётчики слота в памяти процесса
// Поля, кроме refs и version, меняются только под блокировкой слота.
// refs и version защищены Manager.mu
type slotState struct {
	refs    int
	version uint64 // увеличивается при каждом локальном подтверждении и отмене
	loaded  bool

	maxCapacity int
	confirmed   int
	held        int
	isOpen      bool
}

func (s *slotState) available() int {
	free := s.maxCapacity - s.confirmed - s.held
	if free < 0 {
		return 0
	}
	return free
}

func (s *slotState) remaining() int {
	free := s.maxCapacity - s.confirmed
	if free < 0 {
		return 0
	}
	return free
}

// ref возвращает состояние слота, не давая удалить его до unref
func (m *Manager) ref(slotID int64) (*slotState, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[slotID]
	if !ok {
		st = &slotState{}
		m.states[slotID] = st
	}
	st.refs++
	return st, st.version
}

// unref удаляет состояние, когда на него нет ссылок и нет живых удержаний
// held читается без блокировки слота: при refs == 0 его никто не меняет
func (m *Manager) unref(slotID int64, st *slotState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st.refs--
	if st.refs == 0 && st.held == 0 {
		delete(m.states, slotID)
	}
}

// adopt принимает снимок из хранилища, если с момента его чтения слот не менялся локально
// Вызывается под блокировкой слота
func (m *Manager) adopt(st *slotState, snapshot *domain.Slot, versionAtRead uint64) {
	m.mu.Lock()
	fresh := !st.loaded || st.version == versionAtRead
	m.mu.Unlock()

	if !fresh {
		return
	}
	st.maxCapacity = snapshot.MaxCapacity
	st.confirmed = snapshot.ConfirmedSeats
	st.isOpen = snapshot.IsOpen
	st.loaded = true
}

// apply записывает счётчики слота после подтверждения или отмены
// Вызывается под блокировкой слота
func (m *Manager) apply(st *slotState, slot *domain.Slot) {
	m.mu.Lock()
	st.version++
	m.mu.Unlock()

	st.maxCapacity = slot.MaxCapacity
	st.confirmed = slot.ConfirmedSeats
	st.isOpen = slot.IsOpen
	st.loaded = true
}

// releaseHeld возвращает места удержания; отрицательное значение считается аномалией
// Вызывается под блокировкой слота
func (m *Manager) releaseHeld(slotID int64, st *slotState, seats int) {
	if seats > st.held {
		m.logger.Warn("releaseHeld: slot id=%d would go negative, held=%d, releasing=%d", slotID, st.held, seats)
		st.held = 0
		return
	}
	st.held -= seats
}
