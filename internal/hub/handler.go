package hub

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// local inspector, any origin
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades inspector connections and attaches them to h.
func Handler(h *Hub, b *Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := NewClient(h, conn, h.log)
		if !h.Register(client) {
			conn.Close()
			return
		}
		b.Select(client, client.Gamepad())

		go client.WritePump()
		go client.ReadPump(b)
	}
}
