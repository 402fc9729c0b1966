package confirm_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/eligibility"
	confirmAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubUseCase struct {
	got  *confirmAppointment.Request
	resp *confirmAppointment.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *confirmAppointment.Request) (*confirmAppointment.Response, error) {
	s.got = req
	return s.resp, s.err
}

const body = `{"formId":1,"slotIds":[3,4],"email":"a@b.c","confirmEmail":"a@b.c","firstName":"Ivan","lastName":"Petrov","seats":"2"}`

func serve(uc *stubUseCase) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "s1"))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &confirmAppointment.Response{
		ID: 9, Reference: "AB12CD34", FormID: 1, SlotIDs: []int64{3, 4}, BookedSeats: 2,
		StartingAt: start, EndingAt: start.Add(time.Hour),
	}}

	rec := serve(uc)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "s1", uc.got.SessionID)
	assert.Equal(t, []int64{3, 4}, uc.got.SlotIDs)
	assert.Equal(t, "2", uc.got.Seats)
	assert.False(t, uc.got.AllowOverbooking)

	var resp AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "AB12CD34", resp.Reference)
	assert.Equal(t, "2026-05-04T11:00:00Z", resp.EndingAt)
}

func TestHandle_NotEligibleListsViolations(t *testing.T) {
	uc := &stubUseCase{err: fmt.Errorf("wrapped: %w", &confirmAppointment.EligibilityError{Violations: []eligibility.Violation{
		{Code: eligibility.CodeEmailMismatch},
		{Code: eligibility.CodeMinDaysBetween, Detail: "14"},
	}})}

	rec := serve(uc)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp NotEligibleResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []ViolationResponse{
		{Code: string(eligibility.CodeEmailMismatch)},
		{Code: string(eligibility.CodeMinDaysBetween), Detail: "14"},
	}, resp.Violations)
}

func TestHandle_CapacityExceededIsConflict(t *testing.T) {
	rec := serve(&stubUseCase{err: confirmAppointment.ErrNoSeatsAvailable})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_MissingSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(&stubUseCase{}, logger.Nop()).Handle(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
