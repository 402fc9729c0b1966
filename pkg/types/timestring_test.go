package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	ts, err = NewTimeStringFromString("18:00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), ts)

	_, err = NewTimeStringFromString("25:99")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Arithmetic(t *testing.T) {
	ts := TimeString("09:30")

	assert.Equal(t, 570, ts.Minutes())
	assert.Equal(t, TimeString("10:00"), ts.AddMinutes(30))
	assert.Equal(t, TimeString("00:15"), TimeString("23:45").AddMinutes(30))
	assert.True(t, ts.IsBefore("10:00"))
	assert.True(t, ts.IsAfter("09:00"))
	assert.False(t, ts.IsAfter("09:30"))
}

func TestTimeString_On(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	got := TimeString("14:45").On(date)

	assert.Equal(t, time.Date(2026, 3, 12, 14, 45, 0, 0, time.UTC), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("08:00:00"))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan([]byte("12:15")))
	assert.Equal(t, TimeString("12:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
