package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// AppointmentRepository записи в памяти
type AppointmentRepository struct {
	store *Store
}

// SaveConfirmed атомарно увеличивает счётчики мест слотов и сохраняет запись
func (r *AppointmentRepository) SaveConfirmed(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slotIDs := uniqueSorted(appt.SlotIDs())

	// 1. Проверяем все слоты до изменения, чтобы не откатывать частичные изменения
	for _, id := range slotIDs {
		slot, ok := r.store.slots[id]
		switch {
		case !ok:
			return nil, fmt.Errorf("%w: id=%d", appointmentRepo.ErrSlotNotFound, id)
		case !slot.IsOpen:
			return nil, fmt.Errorf("%w: id=%d", appointmentRepo.ErrSlotClosed, id)
		case slot.ConfirmedSeats+appt.BookedSeats > slot.MaxCapacity:
			return nil, fmt.Errorf("%w: id=%d, seats=%d", appointmentRepo.ErrCapacityExceeded, id, appt.BookedSeats)
		}
	}

	// 2. Применяем
	for _, id := range slotIDs {
		r.store.slots[id].ConfirmedSeats += appt.BookedSeats
	}

	r.store.nextAppointmentID++
	now := time.Now()
	stored := *appt
	stored.ID = r.store.nextAppointmentID
	stored.IsCancelled = false
	stored.Slots = nil
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.store.appointments[stored.ID] = &stored
	r.store.links[stored.ID] = slotIDs

	return r.store.appointmentCopy(stored.ID), nil
}

// CancelConfirmed логически отменяет запись и возвращает её места слотам
func (r *AppointmentRepository) CancelConfirmed(ctx context.Context, id int64, at time.Time) (*domain.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if a.IsCancelled {
		return nil, appointmentRepo.ErrAlreadyCancelled
	}

	a.IsCancelled = true
	cancelledAt := at
	a.CancelledAt = &cancelledAt
	a.UpdatedAt = time.Now()

	for _, slotID := range r.store.links[id] {
		if slot, ok := r.store.slots[slotID]; ok {
			slot.ConfirmedSeats -= a.BookedSeats
			if slot.ConfirmedSeats < 0 {
				slot.ConfirmedSeats = 0
			}
		}
	}
	return r.store.appointmentCopy(id), nil
}

// GetByID получает запись со слотами
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a := r.store.appointmentCopy(id)
	if a == nil {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

// GetByReference получает запись по коду
func (r *AppointmentRepository) GetByReference(ctx context.Context, reference string) (*domain.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for id, a := range r.store.appointments {
		if a.Reference == reference {
			return r.store.appointmentCopy(id), nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

// GetByFilter получает историю записей пользователя
func (r *AppointmentRepository) GetByFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for id, a := range r.store.appointments {
		if !strings.EqualFold(a.Email, filter.Email) {
			continue
		}
		if filter.FormID != nil && a.FormID != *filter.FormID {
			continue
		}
		if filter.CategoryID != nil {
			form, ok := r.store.forms[a.FormID]
			if !ok || form.CategoryID == nil || *form.CategoryID != *filter.CategoryID {
				continue
			}
		}
		if !filter.IncludeCancelled && a.IsCancelled {
			continue
		}

		full := r.store.appointmentCopy(id)
		if !inPeriod(full, filter.StartDate, filter.EndDate) {
			continue
		}
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CountActiveBySlot число неотменённых записей на слоте
func (r *AppointmentRepository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for id, a := range r.store.appointments {
		if a.IsCancelled {
			continue
		}
		for _, linked := range r.store.links[id] {
			if linked == slotID {
				count++
				break
			}
		}
	}
	return count, nil
}

// GetSlotsWithActiveAppointments слоты формы начиная с from, на которых есть неотменённые записи
func (r *AppointmentRepository) GetSlotsWithActiveAppointments(ctx context.Context, formID int64, from time.Time) ([]*domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[int64]struct{})
	out := make([]*domain.Slot, 0)
	for id, a := range r.store.appointments {
		if a.IsCancelled {
			continue
		}
		for _, slotID := range r.store.links[id] {
			slot, ok := r.store.slots[slotID]
			if !ok || slot.FormID != formID || slot.StartingAt.Before(from) {
				continue
			}
			if _, dup := seen[slotID]; dup {
				continue
			}
			seen[slotID] = struct{}{}
			cp := *slot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartingAt.Before(out[j].StartingAt) })
	return out, nil
}

// inPeriod любой слот записи начинается в [start, end]; end включает весь день
func inPeriod(a *domain.Appointment, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	for _, slot := range a.Slots {
		if start != nil && slot.StartingAt.Before(*start) {
			continue
		}
		if end != nil && !slot.StartingAt.Before(end.AddDate(0, 0, 1)) {
			continue
		}
		return true
	}
	return false
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
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
