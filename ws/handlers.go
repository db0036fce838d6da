package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/swasthyaflow/backend/internal/opd/models"
	"github.com/swasthyaflow/backend/internal/opd/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards are served from a separate origin.
		return true
	},
}

// EventSink accepts inbound events from connected clients.
type EventSink interface {
	Submit(ev models.Event) bool
}

// Refresher pushes fresh metrics to subscribers.
type Refresher interface {
	RecomputeAll(ctx context.Context)
}

// ServeWS upgrades the connection and registers the client. Repeatable
// department_id query parameters narrow the subscription; without them the
// client receives every broadcast. Each new subscription triggers an
// estimator sweep so the client sees current numbers immediately.
func ServeWS(hub *Hub, sink EventSink, refresher Refresher, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		topics := make(map[string]bool)
		for _, raw := range c.QueryParams()["department_id"] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"status":  http.StatusBadRequest,
					"message": "department_id must be a number",
					"data":    nil,
				})
			}
			topics[services.DepartmentTopic(id)] = true
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		client := &Client{Conn: conn, Send: make(chan []byte, 256), Topics: topics}
		hub.Register <- client

		go client.writePump()
		go client.readPump(hub, sink, log)
		go refresher.RecomputeAll(context.Background())
		return nil
	}
}

// readPump consumes inbound frames. Clients may push queue events over the
// socket; malformed frames are logged and skipped, never fatal.
func (c *Client) readPump(hub *Hub, sink EventSink, log zerolog.Logger) {
	defer func() {
		hub.Unregister <- c
		c.Conn.Close()
	}()
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
		var ev models.Event
		if err := json.Unmarshal(raw, &ev); err != nil || ev.Type == "" {
			log.Warn().Err(err).Msg("ignoring malformed client frame")
			continue
		}
		sink.Submit(ev)
	}
}

func (c *Client) writePump() {
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
	c.Conn.Close()
}
