package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/internal/runner"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
	gamepadCount     = gamepad.MaxGamepads
)

func gamepadID(id uint8) gamepad.ID { return gamepad.ID(id) }

// Rumbler queues rumble requests for the tick thread.
type Rumbler interface {
	Rumble(req runner.RumbleRequest) bool
}

// Broadcaster turns tick results into per-gamepad messages.
type Broadcaster struct {
	hub     *Hub
	changes <-chan []gamepad.Gamepad
	rumbler Rumbler
	log     zerolog.Logger

	mu     sync.Mutex
	last   [gamepadCount]PadState
	deltas [gamepadCount]int
	seq    int64
}

func NewBroadcaster(h *Hub, changes <-chan []gamepad.Gamepad, r Rumbler, log zerolog.Logger) *Broadcaster {
	b := &Broadcaster{hub: h, changes: changes, rumbler: r, log: log}
	for i := range b.last {
		b.last[i] = NewPadState(gamepad.ID(i), gamepad.Gamepad{})
	}
	return b
}

// Run consumes changes until the channel closes or ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case pads, ok := <-b.changes:
			if !ok {
				return
			}
			b.apply(pads)
		case <-ticker.C:
			b.syncAll()
		}
	}
}

func (b *Broadcaster) apply(pads []gamepad.Gamepad) {
	var cur [gamepadCount]PadState
	for i := range cur {
		cur[i] = NewPadState(gamepad.ID(i), gamepad.Gamepad{})
	}
	for _, g := range pads {
		if int(g.ID()) < gamepadCount {
			cur[g.ID()] = NewPadState(g.ID(), g)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	connected := connectedIDs(cur)
	for i := range cur {
		delta := ComputeDelta(b.last[i], cur[i])
		b.last[i] = cur[i]
		if delta.IsEmpty() {
			continue
		}
		b.seq++
		b.deltas[i]++
		if b.deltas[i] >= deltaCountSync || delta.Connected != nil {
			b.deltas[i] = 0
			b.broadcast(NewFullMessage(b.seq, &cur[i], connected), uint8(i))
		} else {
			b.broadcast(NewDeltaMessage(b.seq, uint8(i), delta), uint8(i))
		}
	}
}

func (b *Broadcaster) syncAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	connected := connectedIDs(b.last)
	for i := range b.last {
		if !b.last[i].Connected {
			continue
		}
		b.seq++
		state := b.last[i]
		b.broadcast(NewFullMessage(b.seq, &state, connected), uint8(i))
	}
}

// connectedIDs is an int slice so it encodes as a JSON array, not base64.
func connectedIDs(states [gamepadCount]PadState) []int {
	var ids []int
	for _, s := range states {
		if s.Connected {
			ids = append(ids, int(s.ID))
		}
	}
	return ids
}

func (b *Broadcaster) broadcast(m *WSMessage, id uint8) {
	data, err := json.Marshal(m)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal message")
		return
	}
	b.hub.BroadcastToGamepad(data, id)
}

// Select sends the full state of gamepad id to one client.
func (b *Broadcaster) Select(c *Client, id uint8) {
	if int(id) >= gamepadCount {
		return
	}
	b.mu.Lock()
	b.seq++
	state := b.last[id]
	msg := NewFullMessage(b.seq, &state, connectedIDs(b.last))
	b.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal full state")
		return
	}
	b.hub.SendTo(c, data)
}

func (b *Broadcaster) Rumble(req runner.RumbleRequest) bool {
	if b.rumbler == nil {
		return false
	}
	return b.rumbler.Rumble(req)
}
