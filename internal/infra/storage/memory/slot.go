package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
)

// SlotRepository слоты в памяти
type SlotRepository struct {
	store *Store
}

// Create материализует слот
func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextSlotID++
	slot.ID = r.store.nextSlotID
	stored := *slot
	r.store.slots[slot.ID] = &stored
	return slot, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	out := *slot
	return &out, nil
}

// GetByIDs получает слоты по списку ID, упорядоченные по времени начала
func (r *SlotRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	out := make([]*domain.Slot, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		slot, ok := r.store.slots[id]
		if !ok {
			return nil, slotRepo.ErrSlotNotFound
		}
		cp := *slot
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartingAt.Before(out[j].StartingAt) })
	return out, nil
}

// GetByFormAndRange получает слоты формы, начинающиеся в полуинтервале [from, to)
func (r *SlotRepository) GetByFormAndRange(ctx context.Context, formID int64, from, to time.Time) ([]*domain.Slot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Slot, 0)
	for _, slot := range r.store.slots {
		if slot.FormID != formID || slot.StartingAt.Before(from) || !slot.StartingAt.Before(to) {
			continue
		}
		cp := *slot
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartingAt.Before(out[j].StartingAt) })
	return out, nil
}

// SetOpen открывает или закрывает слот
func (r *SlotRepository) SetOpen(ctx context.Context, id int64, isOpen bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	slot.IsOpen = isOpen
	slot.IsSpecific = true
	return nil
}

func sortSlots(slots []domain.Slot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartingAt.Before(slots[j].StartingAt) })
}
