package cancel_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var slotStart = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*UseCase, *slotcapacity.Manager, *domain.Appointment) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	slot, err := store.Slots().Create(ctx, &domain.Slot{
		FormID:      1,
		StartingAt:  slotStart,
		EndingAt:    slotStart.Add(30 * time.Minute),
		MaxCapacity: 2,
		IsOpen:      true,
	})
	require.NoError(t, err)

	saved, err := store.Appointments().SaveConfirmed(ctx, &domain.Appointment{
		FormID:      1,
		Reference:   "AB12CD34",
		Email:       "user@example.com",
		BookedSeats: 2,
		Slots:       []domain.Slot{{ID: slot.ID}},
	})
	require.NoError(t, err)

	manager := slotcapacity.NewManager(store.Slots(), store.Appointments(), slotlock.NewRegistry(nil),
		holdscheduler.New(logger.Nop()), nil, slotcapacity.Options{}, logger.Nop())
	uc := NewUseCase(store.Appointments(), manager, events.NopPublisher{}, logger.Nop())
	uc.SetTimeProvider(fixedClock{now: slotStart.Add(-24 * time.Hour)})
	return uc, manager, saved
}

func TestExecute_CancelByReferenceReturnsSeats(t *testing.T) {
	uc, manager, saved := setup(t)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{Reference: " ab12cd34 ", Email: "USER@example.com"})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, resp.ID)
	assert.Equal(t, 2, resp.BookedSeats)
	assert.False(t, resp.CancelledAt.IsZero())

	remaining, err := manager.RemainingPlaces(ctx, saved.Slots[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	_, err = uc.Execute(ctx, &Request{AppointmentID: saved.ID})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestExecute_Rejections(t *testing.T) {
	uc, _, saved := setup(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{AppointmentID: 404})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = uc.Execute(ctx, &Request{AppointmentID: saved.ID, Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	uc.SetTimeProvider(fixedClock{now: slotStart.Add(time.Hour)})
	_, err = uc.Execute(ctx, &Request{AppointmentID: saved.ID})
	assert.ErrorIs(t, err, ErrAppointmentPassed)
}
