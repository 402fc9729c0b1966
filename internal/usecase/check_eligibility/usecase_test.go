package check_eligibility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type staticHolds []*holdscheduler.Token

func (h staticHolds) SessionHolds(sessionID string, _ []int64) []*holdscheduler.Token {
	var out []*holdscheduler.Token
	for _, tok := range h {
		if tok.SessionID == sessionID {
			out = append(out, tok)
		}
	}
	return out
}

func setup(t *testing.T, holds staticHolds) (*UseCase, *domain.Slot) {
	t.Helper()
	return setupForm(t, holds, 5)
}

func setupForm(t *testing.T, holds staticHolds, maxPeople int) (*UseCase, *domain.Slot) {
	t.Helper()
	store := memory.NewStore()
	store.Rules().PutFormRules(domain.FormRules{FormID: 1, EnableMandatoryEmail: true, MaxPeoplePerAppointment: maxPeople})

	start := time.Now().AddDate(0, 0, 3).Truncate(time.Hour)
	slot, err := store.Slots().Create(context.Background(), &domain.Slot{
		FormID: 1, StartingAt: start, EndingAt: start.Add(30 * time.Minute), MaxCapacity: 5, IsOpen: true,
	})
	require.NoError(t, err)

	engine := eligibility.NewEngine(store.Rules(), store.Appointments(), nil, logger.Nop())
	return NewUseCase(store.Slots(), engine, holds, logger.Nop()), slot
}

func TestExecute_WithoutSessionSeatsAreNotCappedByHolds(t *testing.T) {
	uc, slot := setup(t, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		FormID: 1, SlotIDs: []int64{slot.ID}, Email: "a@b.c", ConfirmEmail: "a@b.c", Seats: "4",
	})
	require.NoError(t, err)
	assert.True(t, resp.Eligible)
	assert.Equal(t, 4, resp.Seats)
}

func TestExecute_SessionHoldCapsSeats(t *testing.T) {
	uc, slot := setup(t, nil)
	uc.holds = staticHolds{holdscheduler.NewToken("s1", slot.ID, 2, time.Now(), time.Minute)}

	resp, err := uc.Execute(context.Background(), &Request{
		SessionID: "s1", FormID: 1, SlotIDs: []int64{slot.ID}, Email: "a@b.c", ConfirmEmail: "", Seats: "3",
	})
	require.NoError(t, err)
	assert.False(t, resp.Eligible)

	codes := make([]eligibility.Code, 0, len(resp.Violations))
	for _, v := range resp.Violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []eligibility.Code{
		eligibility.CodeConfirmEmailEmpty,
		eligibility.CodeEmailMismatch,
		eligibility.CodeSeatsExceeded,
	}, codes)
}

func TestExecute_SingleSeatFormNeedsSessionHold(t *testing.T) {
	uc, slot := setupForm(t, nil, 1)
	ctx := context.Background()
	req := &Request{FormID: 1, SlotIDs: []int64{slot.ID}, Email: "a@b.c", ConfirmEmail: "a@b.c"}

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Eligible, "dry run without session")

	req.SessionID = "s1"
	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Eligible)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, eligibility.CodeSeatsExceeded, resp.Violations[0].Code)

	uc.holds = staticHolds{holdscheduler.NewToken("s1", slot.ID, 1, time.Now(), time.Minute)}
	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Eligible)
	assert.Equal(t, 1, resp.Seats)
}

func TestExecute_Errors(t *testing.T) {
	uc, slot := setup(t, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{FormID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{FormID: 1, SlotIDs: []int64{slot.ID + 100}})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = uc.Execute(ctx, &Request{FormID: 2, SlotIDs: []int64{slot.ID}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
