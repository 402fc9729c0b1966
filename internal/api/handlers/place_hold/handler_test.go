package place_hold

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	placeHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/place_hold"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubUseCase struct {
	got  *placeHold.Request
	resp *placeHold.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *placeHold.Request) (*placeHold.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc *stubUseCase, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/slots/{slotId}/holds",
		middleware.Session(http.HandlerFunc(NewHandler(uc, logger.Nop()).Handle))).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderSessionID, "session-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	expires := time.Date(2026, 5, 4, 10, 1, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &placeHold.Response{
		HoldID: "h1", SlotID: 7, GrantedSeats: 2, RemainingPlaces: 5, PotentialRemainingPlaces: 3, ExpiresAt: expires,
	}}

	rec := serve(uc, "/api/v1/slots/7/holds", `{"seats":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, &placeHold.Request{SessionID: "session-1", SlotID: 7, Seats: 2}, uc.got)

	var body HoldResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "h1", body.HoldID)
	assert.Equal(t, 3, body.PotentialRemainingPlaces)
	assert.Equal(t, "2026-05-04T10:01:00Z", body.ExpiresAt)
}

func TestHandle_EmptyBodyHoldsFormMaximum(t *testing.T) {
	uc := &stubUseCase{resp: &placeHold.Response{HoldID: "h1"}}

	rec := serve(uc, "/api/v1/slots/7/holds", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0, uc.got.Seats)
}

func TestHandle_ErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{placeHold.ErrSlotNotFound, http.StatusNotFound},
		{placeHold.ErrNoSeatsAvailable, http.StatusConflict},
		{placeHold.ErrSlotClosed, http.StatusConflict},
		{placeHold.ErrSlotBusy, http.StatusServiceUnavailable},
		{placeHold.ErrInvalidInput, http.StatusBadRequest},
		{placeHold.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := serve(&stubUseCase{err: tc.err}, "/api/v1/slots/7/holds", `{"seats":1}`)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHandle_InvalidSlotID(t *testing.T) {
	rec := serve(&stubUseCase{}, "/api/v1/slots/abc/holds", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
