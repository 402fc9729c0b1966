package slotcapacity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

var slotStart = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	locks   *slotlock.Registry
	manager *Manager
}

func newFixture(t *testing.T, holdTimeout time.Duration) *fixture {
	t.Helper()
	store := memory.NewStore()
	locks := slotlock.NewRegistry(nil)
	scheduler := holdscheduler.New(logger.Nop())
	m := NewManager(store.Slots(), store.Appointments(), locks, scheduler, nil,
		Options{LockWait: time.Second, HoldTimeout: holdTimeout}, logger.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		m.Shutdown(ctx)
	})
	return &fixture{store: store, locks: locks, manager: m}
}

func (f *fixture) slot(t *testing.T, capacity int, offset time.Duration) *domain.Slot {
	t.Helper()
	slot, err := f.store.Slots().Create(context.Background(), &domain.Slot{
		FormID:      1,
		StartingAt:  slotStart.Add(offset),
		EndingAt:    slotStart.Add(offset + 30*time.Minute),
		MaxCapacity: capacity,
		IsOpen:      true,
	})
	require.NoError(t, err)
	return slot
}

func draft(seats int, slots ...*domain.Slot) *domain.Appointment {
	appt := &domain.Appointment{FormID: 1, Email: "user@example.com", BookedSeats: seats}
	for _, s := range slots {
		appt.Slots = append(appt.Slots, domain.Slot{ID: s.ID})
	}
	return appt
}

func TestPlaceHold_GrantsWhatIsAvailable(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 3, 0)
	ctx := context.Background()

	first, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.GrantedSeats)
	assert.Equal(t, 1, first.PotentialRemainingPlaces)
	assert.Equal(t, 3, first.RemainingPlaces)

	second, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "b", SlotID: slot.ID, RequestedSeats: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, second.GrantedSeats)

	_, err = f.manager.PlaceHold(ctx, HoldRequest{SessionID: "c", SlotID: slot.ID, RequestedSeats: 1})
	assert.ErrorIs(t, err, ErrBusy)

	potential, err := f.manager.PotentialRemainingPlaces(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, potential)
}

func TestPlaceHold_ConcurrentHoldsNeverExceedCapacity(t *testing.T) {
	f := newFixture(t, time.Minute)
	const capacity, sessions = 10, 50
	slot := f.slot(t, capacity, 0)

	var (
		wg      sync.WaitGroup
		granted atomic.Int32
		busy    atomic.Int32
	)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.manager.PlaceHold(context.Background(), HoldRequest{
				SessionID:      string(rune('A' + i)),
				SlotID:         slot.ID,
				RequestedSeats: 1,
			})
			if err != nil {
				assert.ErrorIs(t, err, ErrBusy)
				busy.Add(1)
				return
			}
			granted.Add(int32(res.GrantedSeats))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(capacity), granted.Load())
	assert.Equal(t, int32(sessions-capacity), busy.Load())

	a, err := f.manager.Availability(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, a.ConfirmedSeats+a.PotentialHeldSeats)
	assert.Equal(t, 0, a.PotentialRemainingPlaces)
}

func TestPlaceHold_ExpiryReturnsSeats(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	slot := f.slot(t, 2, 0)
	ctx := context.Background()

	res, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		potential, err := f.manager.PotentialRemainingPlaces(ctx, slot.ID)
		return err == nil && potential == 2
	}, time.Second, 5*time.Millisecond)

	// Истекшее удержание нельзя отменить повторно
	cancelled, err := f.manager.CancelHold(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, cancelled)

	potential, err := f.manager.PotentialRemainingPlaces(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, potential)

	_, found := f.manager.LookupHold(res.Token.ID)
	assert.False(t, found)
}

func TestCancelHold_IsIdempotent(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 2, 0)
	ctx := context.Background()

	res, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 1})
	require.NoError(t, err)

	got, found := f.manager.LookupHold(res.Token.ID)
	require.True(t, found)
	assert.Same(t, res.Token, got)

	ok, err := f.manager.CancelHold(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.manager.CancelHold(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	a, err := f.manager.Availability(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, a.PotentialHeldSeats)
	assert.Equal(t, 2, a.PotentialRemainingPlaces)
}

func TestPlaceHold_SameSessionAccumulatesUpToMax(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 10, 0)
	ctx := context.Background()

	first, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2, MaxSeats: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, first.GrantedSeats)

	second, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2, MaxSeats: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, second.GrantedSeats)
	assert.True(t, first.Token.IsClaimed())
	assert.Equal(t, 1, f.manager.ActiveHolds())

	a, err := f.manager.Availability(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, a.PotentialHeldSeats)
}

func TestPlaceHold_SameSessionRepeatOnShortSlot(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		maxSeats    int
		otherSeats  int
		wantGranted int
	}{
		{name: "slot already fully held by session", capacity: 2, maxSeats: 4, wantGranted: 2},
		{name: "other session holds the rest", capacity: 3, maxSeats: 3, otherSeats: 1, wantGranted: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, time.Minute)
			slot := f.slot(t, tt.capacity, 0)
			ctx := context.Background()

			first, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2, MaxSeats: tt.maxSeats})
			require.NoError(t, err)
			require.Equal(t, 2, first.GrantedSeats)

			if tt.otherSeats > 0 {
				_, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "b", SlotID: slot.ID, RequestedSeats: tt.otherSeats})
				require.NoError(t, err)
			}

			again, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2, MaxSeats: tt.maxSeats})
			require.NoError(t, err)
			assert.Equal(t, tt.wantGranted, again.GrantedSeats)
			assert.Equal(t, 0, again.PotentialRemainingPlaces)

			a, err := f.manager.Availability(ctx, slot.ID)
			require.NoError(t, err)
			assert.LessOrEqual(t, a.ConfirmedSeats+a.PotentialHeldSeats, a.MaxCapacity)
			assert.Equal(t, tt.capacity, a.PotentialHeldSeats)
		})
	}
}

func TestPlaceHold_ClosedAndMissingSlot(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 2, 0)
	ctx := context.Background()
	require.NoError(t, f.store.Slots().SetOpen(ctx, slot.ID, false))

	_, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 1})
	assert.ErrorIs(t, err, ErrSlotClosed)

	_, err = f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: 999, RequestedSeats: 1})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 0})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHoldConfirmCancel_EndToEnd(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 2, 0)
	ctx := context.Background()

	// A удерживает оба места, B получает отказ
	holdA, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, holdA.GrantedSeats)

	_, err = f.manager.PlaceHold(ctx, HoldRequest{SessionID: "b", SlotID: slot.ID, RequestedSeats: 1})
	assert.ErrorIs(t, err, ErrBusy)

	// A подтверждает
	appt, err := f.manager.Confirm(ctx, ConfirmRequest{Appointment: draft(2, slot), Holds: []*holdscheduler.Token{holdA.Token}})
	require.NoError(t, err)
	assert.NotZero(t, appt.ID)
	assert.Equal(t, 2, appt.Slots[0].ConfirmedSeats)

	remaining, err := f.manager.RemainingPlaces(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = f.manager.PlaceHold(ctx, HoldRequest{SessionID: "b", SlotID: slot.ID, RequestedSeats: 1})
	assert.ErrorIs(t, err, ErrBusy)

	// Отмена записи A возвращает места
	cancelled, err := f.manager.CancelAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)

	remaining, err = f.manager.RemainingPlaces(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	_, err = f.manager.CancelAppointment(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	assert.Equal(t, 0, f.manager.TrackedSlots())
	assert.Equal(t, 0, f.locks.Size())
}

func TestConfirm_RejectsWhenOtherHoldsOccupySeats(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 2, 0)
	ctx := context.Background()

	_, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 2})
	require.NoError(t, err)

	// Сессия без удержания пытается подтвердить место, занятое чужим удержанием
	_, err = f.manager.Confirm(ctx, ConfirmRequest{Appointment: draft(1, slot)})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	a, err := f.manager.Availability(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, a.ConfirmedSeats)
	assert.Equal(t, 2, a.PotentialHeldSeats)
}

func TestConfirm_StorageRejectsWhenAnotherReplicaFilledSlot(t *testing.T) {
	f := newFixture(t, time.Minute)
	slot := f.slot(t, 1, 0)
	ctx := context.Background()

	hold, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: slot.ID, RequestedSeats: 1})
	require.NoError(t, err)

	// Другой процесс подтвердил место напрямую в хранилище
	_, err = f.store.Appointments().SaveConfirmed(ctx, draft(1, slot))
	require.NoError(t, err)

	_, err = f.manager.Confirm(ctx, ConfirmRequest{Appointment: draft(1, slot), Holds: []*holdscheduler.Token{hold.Token}})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.True(t, hold.Token.IsClaimed())
	assert.Equal(t, 0, f.manager.ActiveHolds())
}

func TestConfirm_MultiSlotAppointment(t *testing.T) {
	f := newFixture(t, time.Minute)
	first := f.slot(t, 2, 0)
	second := f.slot(t, 2, 30*time.Minute)
	ctx := context.Background()

	h1, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: first.ID, RequestedSeats: 1})
	require.NoError(t, err)
	h2, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: second.ID, RequestedSeats: 1})
	require.NoError(t, err)

	appt, err := f.manager.Confirm(ctx, ConfirmRequest{
		Appointment: draft(1, second, first),
		Holds:       []*holdscheduler.Token{h1.Token, h2.Token},
	})
	require.NoError(t, err)
	require.Len(t, appt.Slots, 2)
	assert.Equal(t, first.ID, appt.Slots[0].ID)
	assert.Equal(t, second.ID, appt.Slots[1].ID)

	for _, id := range []int64{first.ID, second.ID} {
		a, err := f.manager.Availability(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, a.ConfirmedSeats)
		assert.Equal(t, 0, a.PotentialHeldSeats)
	}
}

func TestConfirm_ConcurrentConfirmsRespectCapacity(t *testing.T) {
	f := newFixture(t, time.Minute)
	const capacity = 3
	slot := f.slot(t, capacity, 0)

	var (
		wg        sync.WaitGroup
		confirmed atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.Confirm(context.Background(), ConfirmRequest{Appointment: draft(1, slot)})
			if err == nil {
				confirmed.Add(1)
				return
			}
			assert.ErrorIs(t, err, ErrCapacityExceeded)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(capacity), confirmed.Load())
	stored, err := f.store.Slots().GetByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, stored.ConfirmedSeats)
}

func TestShutdown_ReleasesOutstandingHolds(t *testing.T) {
	store := memory.NewStore()
	slot, err := store.Slots().Create(context.Background(), &domain.Slot{
		FormID: 1, StartingAt: slotStart, EndingAt: slotStart.Add(30 * time.Minute), MaxCapacity: 4, IsOpen: true,
	})
	require.NoError(t, err)

	m := NewManager(store.Slots(), store.Appointments(), slotlock.NewRegistry(nil), holdscheduler.New(logger.Nop()), nil,
		Options{HoldTimeout: time.Hour}, logger.Nop())

	for _, session := range []string{"a", "b"} {
		_, err := m.PlaceHold(context.Background(), HoldRequest{SessionID: session, SlotID: slot.ID, RequestedSeats: 2})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Equal(t, 2, m.Shutdown(ctx))
	assert.Equal(t, 0, m.ActiveHolds())
	assert.Equal(t, 0, m.TrackedSlots())

	_, err = m.PlaceHold(context.Background(), HoldRequest{SessionID: "c", SlotID: slot.ID, RequestedSeats: 1})
	assert.ErrorIs(t, err, ErrShuttingDown)
}

func TestSessionHolds_ReturnsOnlyLiveHoldsOfSession(t *testing.T) {
	f := newFixture(t, time.Minute)
	first := f.slot(t, 2, 0)
	second := f.slot(t, 2, 30*time.Minute)
	ctx := context.Background()

	a, err := f.manager.PlaceHold(ctx, HoldRequest{SessionID: "a", SlotID: first.ID, RequestedSeats: 1})
	require.NoError(t, err)
	_, err = f.manager.PlaceHold(ctx, HoldRequest{SessionID: "b", SlotID: second.ID, RequestedSeats: 1})
	require.NoError(t, err)

	holds := f.manager.SessionHolds("a", []int64{first.ID, second.ID})
	require.Len(t, holds, 1)
	assert.Equal(t, a.Token.ID, holds[0].ID)

	_, err = f.manager.CancelHold(ctx, a.Token)
	require.NoError(t, err)
	assert.Empty(t, f.manager.SessionHolds("a", []int64{first.ID}))
}
