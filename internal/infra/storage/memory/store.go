package memory

import (
	"sync"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Store хранилище в памяти процесса с той же семантикой, что и PostgreSQL репозитории
// Используется драйвером memory и в тестах. Все операции сериализуются одним мьютексом,
// поэтому составные изменения (счётчики слотов + запись) атомарны
type Store struct {
	mu sync.RWMutex

	slots        map[int64]*domain.Slot
	appointments map[int64]*domain.Appointment
	links        map[int64][]int64 // appointment id -> slot ids
	forms        map[int64]*domain.FormRules
	categories   map[int64]*domain.Category
	schedules    map[int64]*domain.WeekSchedule

	nextSlotID        int64
	nextAppointmentID int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		slots:        make(map[int64]*domain.Slot),
		appointments: make(map[int64]*domain.Appointment),
		links:        make(map[int64][]int64),
		forms:        make(map[int64]*domain.FormRules),
		categories:   make(map[int64]*domain.Category),
		schedules:    make(map[int64]*domain.WeekSchedule),
	}
}

// Slots репозиторий слотов
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{store: s}
}

// Appointments репозиторий записей
func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{store: s}
}

// Rules репозиторий правил
func (s *Store) Rules() *RulesRepository {
	return &RulesRepository{store: s}
}

// appointmentCopy собирает запись с актуальным состоянием слотов; вызывается под s.mu
func (s *Store) appointmentCopy(id int64) *domain.Appointment {
	a, ok := s.appointments[id]
	if !ok {
		return nil
	}
	out := *a
	out.Slots = make([]domain.Slot, 0, len(s.links[id]))
	for _, slotID := range s.links[id] {
		if slot, ok := s.slots[slotID]; ok {
			out.Slots = append(out.Slots, *slot)
		}
	}
	sortSlots(out.Slots)
	return &out
}
