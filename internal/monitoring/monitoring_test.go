package monitoring

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/gamepads/gamepad"
)

func TestCounters(t *testing.T) {
	m := New()
	m.InputDropped(gamepad.DropUnmapped)
	m.InputDropped(gamepad.DropUnmapped)
	m.InputDropped(gamepad.DropSlotsFull)
	m.RumblePlayed()
	m.RumbleDropped()
	m.RumbleDropped()
	m.Connected(3)
	m.Frame("snapshot", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dropped.WithLabelValues(gamepad.DropUnmapped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues(gamepad.DropSlotsFull)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rumbles.WithLabelValues("played")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rumbles.WithLabelValues("dropped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.connected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frames.WithLabelValues("snapshot", "malformed")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Connected(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gamepads_connected 1")
}
