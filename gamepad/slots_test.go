package gamepad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotTable(t *testing.T) {
	var table SlotTable[string]

	handles := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for want, h := range handles {
		slot, ok := table.FindOrInsert(h)
		assert.True(t, ok, h)
		assert.Equal(t, want, slot, h)
	}
	assert.Equal(t, MaxGamepads, table.Len())

	// A ninth distinct handle is ignored and no slot is reassigned.
	_, ok := table.FindOrInsert("i")
	assert.False(t, ok)
	_, ok = table.Find("i")
	assert.False(t, ok)

	// Known handles keep their slot, whatever order they come back in.
	for i := len(handles) - 1; i >= 0; i-- {
		slot, ok := table.FindOrInsert(handles[i])
		assert.True(t, ok)
		assert.Equal(t, i, slot)
	}

	h, ok := table.Handle(3)
	assert.True(t, ok)
	assert.Equal(t, "d", h)
	_, ok = table.Handle(MaxGamepads)
	assert.False(t, ok)
	_, ok = table.Handle(-1)
	assert.False(t, ok)
}

func TestSlotTableFindDoesNotInsert(t *testing.T) {
	var table SlotTable[uint32]

	_, ok := table.Find(7)
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())

	_, ok = table.Handle(0)
	assert.False(t, ok)
}
