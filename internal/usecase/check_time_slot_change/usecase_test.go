package check_time_slot_change

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// 2026-03-09 - понедельник
var monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func TestExecute_ReportsSlotsWithAppointments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var slots []*domain.Slot
	for i := 0; i < 4; i++ {
		start := monday.Add(9*time.Hour + time.Duration(i)*30*time.Minute)
		slot, err := store.Slots().Create(ctx, &domain.Slot{
			FormID: 1, StartingAt: start, EndingAt: start.Add(30 * time.Minute), MaxCapacity: 2, IsOpen: true,
		})
		require.NoError(t, err)
		slots = append(slots, slot)
	}
	// запись только на 10:00
	_, err := store.Appointments().SaveConfirmed(ctx, &domain.Appointment{
		FormID: 1, Email: "user@example.com", BookedSeats: 1, Slots: []domain.Slot{{ID: slots[2].ID}},
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Slots(), store.Appointments(), logger.Nop())
	uc.SetTimeProvider(fixedClock{now: monday})

	def := domain.TimeSlotDefinition{Weekday: time.Monday, StartTime: "09:30", EndTime: "10:00"}

	resp, err := uc.Execute(ctx, &Request{FormID: 1, TimeSlot: def})
	require.NoError(t, err)
	assert.Equal(t, []int64{slots[1].ID}, resp.ImpactedSlotIDs)
	assert.False(t, resp.Impacted)

	resp, err = uc.Execute(ctx, &Request{FormID: 1, TimeSlot: def, Shift: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{slots[1].ID, slots[2].ID, slots[3].ID}, resp.ImpactedSlotIDs)
	assert.Equal(t, []int64{slots[2].ID}, resp.SlotsWithAppointments)
	assert.True(t, resp.Impacted)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(memory.NewStore().Slots(), memory.NewStore().Appointments(), logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{FormID: 1, TimeSlot: domain.TimeSlotDefinition{StartTime: "10:00", EndTime: "09:00"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{FormID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
