package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "слот занят")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "слот занят"}, body)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Seats int `json:"seats"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seats":2}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, 2, dst.Seats)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seats":2,"extra":true}`))
	assert.Error(t, DecodeJSON(req, &dst))
}
