package confirm_appointment

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	"github.com/m04kA/SMC-AppointmentService/internal/service/holdscheduler"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotcapacity"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotlock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AppointmentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	store     *memory.Store
	manager   *slotcapacity.Manager
	publisher *recordingPublisher
	uc        *UseCase
	start     time.Time
}

func newFixture(t *testing.T, rules domain.FormRules) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.Rules().PutFormRules(rules)

	manager := slotcapacity.NewManager(store.Slots(), store.Appointments(), slotlock.NewRegistry(nil),
		holdscheduler.New(logger.Nop()), nil, slotcapacity.Options{}, logger.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		manager.Shutdown(ctx)
	})

	engine := eligibility.NewEngine(store.Rules(), store.Appointments(), nil, logger.Nop())
	publisher := &recordingPublisher{}
	uc := NewUseCase(store.Slots(), store.Appointments(), engine, manager, publisher, logger.Nop())

	return &fixture{
		store:     store,
		manager:   manager,
		publisher: publisher,
		uc:        uc,
		start:     time.Now().AddDate(0, 0, 2).Truncate(time.Hour),
	}
}

func (f *fixture) slot(t *testing.T, formID int64, offset time.Duration, capacity int) *domain.Slot {
	t.Helper()
	slot, err := f.store.Slots().Create(context.Background(), &domain.Slot{
		FormID:      formID,
		StartingAt:  f.start.Add(offset),
		EndingAt:    f.start.Add(offset + 30*time.Minute),
		MaxCapacity: capacity,
		IsOpen:      true,
	})
	require.NoError(t, err)
	return slot
}

func (f *fixture) hold(t *testing.T, session string, slot *domain.Slot, seats int) {
	t.Helper()
	_, err := f.manager.PlaceHold(context.Background(), slotcapacity.HoldRequest{
		SessionID: session, SlotID: slot.ID, RequestedSeats: seats, MaxSeats: seats,
	})
	require.NoError(t, err)
}

func request(session string, slots ...*domain.Slot) *Request {
	req := &Request{
		SessionID:    session,
		FormID:       1,
		Email:        "user@example.com",
		ConfirmEmail: "User@Example.com",
		FirstName:    "Ivan",
		LastName:     "Petrov",
	}
	for _, s := range slots {
		req.SlotIDs = append(req.SlotIDs, s.ID)
	}
	return req
}

func TestExecute_ConfirmsHeldSeats(t *testing.T) {
	f := newFixture(t, domain.FormRules{FormID: 1, MaxPeoplePerAppointment: 4})
	first := f.slot(t, 1, 0, 4)
	second := f.slot(t, 1, 30*time.Minute, 4)
	f.hold(t, "s1", first, 2)
	f.hold(t, "s1", second, 2)

	req := request("s1", second, first)
	req.Seats = "2"
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), resp.Reference)
	assert.Equal(t, 2, resp.BookedSeats)
	assert.Equal(t, first.StartingAt, resp.StartingAt)
	assert.Equal(t, second.EndingAt, resp.EndingAt)
	assert.False(t, resp.DateTaken.IsZero())

	for _, s := range []*domain.Slot{first, second} {
		a, err := f.manager.Availability(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, a.ConfirmedSeats)
		assert.Equal(t, 0, a.PotentialHeldSeats)
	}
	assert.Equal(t, 0, f.manager.ActiveHolds())

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeAppointmentConfirmed, f.publisher.events[0].Type)
	assert.Equal(t, resp.Reference, f.publisher.events[0].Reference)
}

func TestExecute_ReportsAllViolations(t *testing.T) {
	f := newFixture(t, domain.FormRules{FormID: 1, EnableMandatoryEmail: true, MaxPeoplePerAppointment: 4})
	first := f.slot(t, 1, 0, 4)
	gap := f.slot(t, 1, time.Hour, 4)
	f.hold(t, "s1", first, 1)

	req := request("s1", first, gap)
	req.ConfirmEmail = ""
	req.Seats = "3"
	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrNotEligible)

	var eligibilityErr *EligibilityError
	require.True(t, errors.As(err, &eligibilityErr))
	codes := make([]eligibility.Code, 0, len(eligibilityErr.Violations))
	for _, v := range eligibilityErr.Violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []eligibility.Code{
		eligibility.CodeConfirmEmailEmpty,
		eligibility.CodeEmailMismatch,
		eligibility.CodeSeatsExceeded,
		eligibility.CodeSlotsNotConsecutive,
	}, codes)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_OtherSessionHoldsBlockConfirmation(t *testing.T) {
	f := newFixture(t, domain.FormRules{FormID: 1})
	slot := f.slot(t, 1, 0, 1)
	f.hold(t, "other", slot, 1)

	_, err := f.uc.Execute(context.Background(), request("late", slot))
	assert.ErrorIs(t, err, ErrNoSeatsAvailable)
}

func TestExecute_PublishFailureDoesNotFailConfirmation(t *testing.T) {
	f := newFixture(t, domain.FormRules{FormID: 1})
	f.publisher.err = errors.New("broker down")
	slot := f.slot(t, 1, 0, 1)
	f.hold(t, "s1", slot, 1)

	resp, err := f.uc.Execute(context.Background(), request("s1", slot))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BookedSeats)
}

func TestExecute_InvalidRequests(t *testing.T) {
	f := newFixture(t, domain.FormRules{FormID: 1})
	own := f.slot(t, 1, 0, 1)
	foreign := f.slot(t, 2, 30*time.Minute, 1)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request("", own))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, request("s1"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, request("s1", own, own))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, request("s1", own, foreign))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{SessionID: "s1", FormID: 1, SlotIDs: []int64{404}})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	req := request("s1", foreign)
	req.FormID = 2
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrRulesNotFound)
}

func TestGrantedSeats(t *testing.T) {
	holds := []*holdscheduler.Token{{SlotID: 1, Seats: 3}, {SlotID: 2, Seats: 2}}
	assert.Equal(t, 2, grantedSeats(holds, []int64{1, 2}))
	assert.Equal(t, 0, grantedSeats(holds, []int64{1, 3}))
	assert.Equal(t, 0, grantedSeats(nil, nil))
}
