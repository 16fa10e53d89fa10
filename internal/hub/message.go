package hub

import (
	"time"
)

// WSMessage is a message sent from server to client.
type WSMessage struct {
	Type      string        `json:"type"` // "full", "delta", "selected", "rumble_queued"
	Seq       int64         `json:"seq"`
	Timestamp int64         `json:"timestamp"` // unix milliseconds
	Gamepad   uint8         `json:"gamepad"`
	Data      *PadState     `json:"data,omitempty"`
	Changes   *DeltaChanges `json:"changes,omitempty"`
	Connected []int         `json:"connectedIds,omitempty"`
	OK        *bool         `json:"ok,omitempty"`
}

func NewFullMessage(seq int64, state *PadState, connected []int) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Gamepad:   state.ID,
		Data:      state,
		Connected: connected,
	}
}

func NewDeltaMessage(seq int64, id uint8, changes *DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Gamepad:   id,
		Changes:   changes,
	}
}

func NewSelectedMessage(id uint8) *WSMessage {
	return &WSMessage{Type: "selected", Timestamp: time.Now().UnixMilli(), Gamepad: id}
}

func NewRumbleQueuedMessage(id uint8, ok bool) *WSMessage {
	return &WSMessage{Type: "rumble_queued", Timestamp: time.Now().UnixMilli(), Gamepad: id, OK: &ok}
}

// ClientMessage is a command sent by a client.
type ClientMessage struct {
	Type         string  `json:"type"` // "select_gamepad", "rumble"
	Gamepad      uint8   `json:"gamepad"`
	DurationMs   uint32  `json:"durationMs,omitempty"`
	StartDelayMs uint32  `json:"startDelayMs,omitempty"`
	Strong       float32 `json:"strong,omitempty"`
	Weak         float32 `json:"weak,omitempty"`
}
