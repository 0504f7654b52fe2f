package chathub

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hospitalchat/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	ConnID string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.Event

	done      chan struct{}
	closeOnce sync.Once
}

func NewWebSocketClient(hub *ManagerService, conn *websocket.Conn, sendBuffer int) *WebSocketClient {
	return &WebSocketClient{
		ConnID: uuid.NewString(),
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.Event, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *WebSocketClient) GetConnID() string                   { return c.ConnID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops the write pump. Events still queued are dropped.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump processes this connection's events one at a time, which keeps a sender's
// messages in order.
func (c *WebSocketClient) readPump() {
	reason := "transport close"
	defer func() {
		c.Hub.Unregister(c.ConnID, reason)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			reason = closeReason(err)
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.log.Debug().Err(err).Str("conn_id", c.ConnID).Msg("unexpected close")
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(message, &env); err != nil || env.Event == "" {
			c.Hub.SendError(c.ConnID, "Invalid event payload")
			continue
		}

		c.Hub.HandleEnvelope(c.ConnID, env)
	}
}

// writePump writes queued events to the socket, one JSON frame per event.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case event := <-c.Send:
			if !c.write(event) {
				return
			}
			// Flush whatever queued up while writing.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if !c.write(<-c.Send) {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WebSocketClient) write(event models.Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		c.Hub.log.Error().Err(err).Str("conn_id", c.ConnID).Str("event", event.Name).Msg("encode event")
		return true
	}
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(websocket.TextMessage, data) == nil
}

func closeReason(err error) string {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Text != "" {
			return ce.Text
		}
		switch ce.Code {
		case websocket.CloseNormalClosure:
			return "client closed"
		case websocket.CloseGoingAway:
			return "going away"
		default:
			return fmt.Sprintf("close %d", ce.Code)
		}
	}
	return "transport error"
}
