package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test, matching t.Chdir,
// which is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestHandleMessage(t *testing.T) {
	chdir(t, t.TempDir())

	ev := BookingEvent{
		Kind:       KindBookingConfirmed,
		BookingID:  12,
		UserID:     3,
		ShowID:     10,
		SeatNumber: 4,
		MovieTitle: "Night Train",
		ScreenName: "Screen 1",
		StartsAt:   "2026-09-01T18:00:00Z",
		OccurredAt: "2026-08-29T12:00:00Z",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, handleMessage(body))

	ev.Kind = KindBookingCancelled
	body, err = json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, handleMessage(body))

	data, err := os.ReadFile(filepath.Join("logs", "booking.log"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Booking confirmed")
	assert.Contains(t, out, "Booking cancelled")
	assert.Contains(t, out, "booking_id=12")
	assert.Contains(t, out, `movie="Night Train"`)
	assert.Contains(t, out, "seat=4")
}

func TestHandleMessageRejectsBadJSON(t *testing.T) {
	chdir(t, t.TempDir())

	err := handleMessage([]byte("{not json"))
	assert.Error(t, err)
}
