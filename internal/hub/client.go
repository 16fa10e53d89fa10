package hub

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/soar/gamepads/internal/runner"
)

const writeWait = 5 * time.Second

// Commands executes what clients ask for.
type Commands interface {
	// Select sends the full state of gamepad id to c.
	Select(c *Client, id uint8)
	Rumble(req runner.RumbleRequest) bool
}

// Client is one connected inspector.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	gamepad atomic.Uint32
	log     zerolog.Logger
}

// NewClient creates a client following gamepad 0.
func NewClient(hub *Hub, conn *websocket.Conn, log zerolog.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		log:  log.With().Str("remote", conn.RemoteAddr().String()).Logger(),
	}
}

// Gamepad is the ID this client follows.
func (c *Client) Gamepad() uint8 { return uint8(c.gamepad.Load()) }

func (c *Client) SetGamepad(id uint8) { c.gamepad.Store(uint32(id)) }

// WritePump sends queued messages until the hub closes the queue.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}

// ReadPump handles client commands until the connection drops.
func (c *Client) ReadPump(cmds Commands) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Debug().Err(err).Msg("bad client message")
			continue
		}

		switch msg.Type {
		case "select_gamepad":
			if int(msg.Gamepad) >= gamepadCount {
				c.log.Debug().Uint8("gamepad", msg.Gamepad).Msg("invalid gamepad selected")
				continue
			}
			c.SetGamepad(msg.Gamepad)
			c.reply(NewSelectedMessage(msg.Gamepad))
			cmds.Select(c, msg.Gamepad)

		case "rumble":
			ok := cmds.Rumble(runner.RumbleRequest{
				ID:           gamepadID(msg.Gamepad),
				DurationMs:   msg.DurationMs,
				StartDelayMs: msg.StartDelayMs,
				Strong:       msg.Strong,
				Weak:         msg.Weak,
			})
			c.reply(NewRumbleQueuedMessage(msg.Gamepad, ok))

		default:
			c.log.Debug().Str("type", msg.Type).Msg("unknown client message")
		}
	}
}

func (c *Client) reply(m *WSMessage) {
	data, err := json.Marshal(m)
	if err != nil {
		c.log.Error().Err(err).Msg("marshal reply")
		return
	}
	c.hub.SendTo(c, data)
}
