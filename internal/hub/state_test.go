package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDelta(t *testing.T) {
	base := PadState{ID: 1, Connected: true, Pressed: []string{"mode"}, JustPressed: []string{}}

	d := ComputeDelta(base, base)
	assert.True(t, d.IsEmpty())

	moved := base
	moved.Axes = [4]float32{0.005, 0, 0, 0}
	assert.True(t, ComputeDelta(base, moved).IsEmpty(), "below analog threshold")

	moved.Axes = [4]float32{0.5, 0, 0, 0}
	d = ComputeDelta(base, moved)
	require.NotNil(t, d.Axes)
	assert.Nil(t, d.Pressed)

	released := base
	released.Pressed = []string{}
	d = ComputeDelta(base, released)
	require.NotNil(t, d.Pressed)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pressed":[]}`, string(data))

	gone := base
	gone.Connected = false
	d = ComputeDelta(base, gone)
	require.NotNil(t, d.Connected)
	assert.False(t, *d.Connected)
}
