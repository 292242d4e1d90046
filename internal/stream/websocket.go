package stream

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Skotchmaster/altazaj/internal/transport"
)

// BufferSize is the per-subscriber queue length used by the websocket
// endpoints.
const BufferSize = 16

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Serve subscribes to orderID (every order for uuid.Nil) and streams its
// events over a websocket.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) error {
	events, unsubscribe := h.Subscribe(orderID, BufferSize)
	defer unsubscribe()
	return Serve(w, r, events, nil)
}

// Serve upgrades the request to a websocket and writes events as JSON until
// the client goes away or events is closed. initial, when set, is written
// first, and queued events not newer than initial.Order.UpdatedAt are
// skipped since the snapshot already reflects them. Subscribe before reading
// the snapshot so that no change falls between the two.
func Serve(w http.ResponseWriter, r *http.Request, events <-chan transport.OrderEvent, initial *transport.OrderEvent) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	var seen time.Time
	if initial != nil {
		seen = initial.Order.UpdatedAt
		if err := write(conn, *initial); err != nil {
			return nil
		}
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"),
					time.Now().Add(writeWait))
				return nil
			}
			if !seen.IsZero() && !ev.Order.UpdatedAt.After(seen) {
				continue
			}
			if err := write(conn, ev); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-gone:
			return nil
		case <-r.Context().Done():
			return nil
		}
	}
}

func write(conn *websocket.Conn, ev transport.OrderEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
