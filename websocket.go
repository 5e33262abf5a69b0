package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const websocketWriteTimeout = 5 * time.Second

// createWebsocketHandler streams the ring's events as JSON text messages
// until the client goes away or the ring is deleted.
func createWebsocketHandler(w http.ResponseWriter, r *http.Request, ring *Ring) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("websocket upgrade failed: %s", err), http.StatusInternalServerError)
		return
	}
	defer c.Close(websocket.StatusInternalError, "the sky is falling")

	unsub, ch := ring.Subscribe()
	defer unsub()

	// We never read from the client; CloseRead handles control frames and
	// cancels ctx when the peer closes.
	ctx := c.CloseRead(r.Context())

	srvlog.Debug().Str("ring", ring.Name()).Msg("Websocket subscribed")

	for {
		select {
		case <-ctx.Done():
			srvlog.Debug().Str("ring", ring.Name()).Msg("Websocket closed by client")
			return
		case ev, ok := <-ch:
			if !ok {
				c.Close(websocket.StatusGoingAway, "ring deleted")
				return
			}

			js, err := json.Marshal(ev)
			if err != nil {
				srvlog.Err(err).Msg("Failed to marshal event payload for websocket")
				continue
			}

			if err := writeTimeout(ctx, websocketWriteTimeout, c, js); err != nil {
				srvlog.Debug().Err(err).Str("ring", ring.Name()).Msg("Websocket write failed")
				return
			}
		}
	}
}

func writeTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Write(ctx, websocket.MessageText, msg)
}
