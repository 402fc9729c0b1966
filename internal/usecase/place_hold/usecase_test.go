package place_hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func setup(t *testing.T, rules domain.FormRules, capacity int) (*UseCase, *domain.Slot) {
	t.Helper()
	store := memory.NewStore()
	store.Rules().PutFormRules(rules)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	slot, err := store.Slots().Create(context.Background(), &domain.Slot{
		FormID:      rules.FormID,
		StartingAt:  start,
		EndingAt:    start.Add(30 * time.Minute),
		MaxCapacity: capacity,
		IsOpen:      true,
	})
	require.NoError(t, err)

	manager := slotcapacity.NewManager(store.Slots(), store.Appointments(), slotlock.NewRegistry(nil),
		holdscheduler.New(logger.Nop()), nil, slotcapacity.Options{}, logger.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		manager.Shutdown(ctx)
	})

	return NewUseCase(store.Slots(), store.Rules(), manager, time.Minute, logger.Nop()), slot
}

func TestExecute_DefaultsToFormMaximum(t *testing.T) {
	uc, slot := setup(t, domain.FormRules{FormID: 1, MaxPeoplePerAppointment: 3, HoldTimeoutSeconds: 120}, 5)
	before := time.Now()

	resp, err := uc.Execute(context.Background(), &Request{SessionID: "s1", SlotID: slot.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.GrantedSeats)
	assert.Equal(t, 2, resp.PotentialRemainingPlaces)
	assert.Equal(t, 5, resp.RemainingPlaces)
	assert.NotEmpty(t, resp.HoldID)
	assert.WithinDuration(t, before.Add(2*time.Minute), resp.ExpiresAt, 5*time.Second)

	resp, err = uc.Execute(context.Background(), &Request{SessionID: "s2", SlotID: slot.ID, Seats: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.GrantedSeats, "partial grant")

	_, err = uc.Execute(context.Background(), &Request{SessionID: "s3", SlotID: slot.ID, Seats: 1})
	assert.ErrorIs(t, err, ErrNoSeatsAvailable)
}

func TestExecute_SingleSeatForm(t *testing.T) {
	uc, slot := setup(t, domain.FormRules{FormID: 1}, 5)

	resp, err := uc.Execute(context.Background(), &Request{SessionID: "s1", SlotID: slot.ID, Seats: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.GrantedSeats)
}

func TestExecute_Errors(t *testing.T) {
	uc, slot := setup(t, domain.FormRules{FormID: 1}, 1)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{SlotID: slot.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{SessionID: "s1", SlotID: slot.ID, Seats: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{SessionID: "s1", SlotID: 999})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_ClosedSlotAndMissingRules(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour)
	orphan, err := store.Slots().Create(ctx, &domain.Slot{FormID: 2, StartingAt: start, EndingAt: start.Add(time.Hour), MaxCapacity: 1, IsOpen: true})
	require.NoError(t, err)
	store.Rules().PutFormRules(domain.FormRules{FormID: 3})
	closed, err := store.Slots().Create(ctx, &domain.Slot{FormID: 3, StartingAt: start, EndingAt: start.Add(time.Hour), MaxCapacity: 1})
	require.NoError(t, err)

	manager := slotcapacity.NewManager(store.Slots(), store.Appointments(), slotlock.NewRegistry(nil),
		holdscheduler.New(logger.Nop()), nil, slotcapacity.Options{}, logger.Nop())
	uc := NewUseCase(store.Slots(), store.Rules(), manager, time.Minute, logger.Nop())

	_, err = uc.Execute(ctx, &Request{SessionID: "s", SlotID: orphan.ID})
	assert.ErrorIs(t, err, ErrRulesNotFound)

	_, err = uc.Execute(ctx, &Request{SessionID: "s", SlotID: closed.ID})
	assert.ErrorIs(t, err, ErrSlotClosed)
}
