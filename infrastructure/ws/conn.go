package ws

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"arena-lab/domain/event"
	"arena-lab/errors"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

var _ contract.EventSink = (*Connection)(nil)

// Connection pumps frames between one websocket and the orchestrator.
// The send channel is never closed; done signals the writer to stop.
type Connection struct {
	id        domain.ConnID
	ws        *websocket.Conn
	log       *slog.Logger
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewConnection(id domain.ConnID, ws *websocket.Conn, log *slog.Logger, bufferSize int) *Connection {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Connection{
		id:   id,
		ws:   ws,
		log:  log.With("conn", id),
		send: make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
}

func (c *Connection) ID() domain.ConnID { return c.id }

// Consume queues e for the writer without blocking.
// A full buffer means the peer stopped reading: the connection is closed.
func (c *Connection) Consume(_ context.Context, e event.Event) error {
	frame, err := json.Marshal(e)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errors.ErrConnectionClosing
	default:
	}
	select {
	case c.send <- frame:
		return nil
	default:
		c.Close()
		return errors.ErrSlowConsumer
	}
}

// Close stops the writer. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump forwards decoded frames to dispatch until the socket fails.
// Frames that do not decode are dropped; invalid payloads get a generic error_message.
func (c *Connection) ReadPump(dispatch func(domain.Command) bool) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("Unexpected websocket close", "error", err)
			}
			return
		}
		cmd, err := Decode(c.id, frame)
		if err != nil {
			c.log.Debug("Frame dropped", "error", err)
			c.reject(err)
			continue
		}
		if !dispatch(cmd) {
			return
		}
		if _, ok := cmd.(domain.DisconnectCommand); ok {
			return
		}
	}
}

// reject tells the peer its frame was refused when the error has a wire message.
// Unknown events stay silent.
func (c *Connection) reject(err error) {
	msg, ok := errors.UserMessage(err)
	if !ok {
		return
	}
	if err := c.Consume(context.Background(), event.Error(msg)); err != nil {
		c.log.Debug("Rejection not delivered", "error", err)
	}
}

// WritePump writes queued frames and keeps the peer alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("Write failed", "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever is still buffered within a single write window.
func (c *Connection) flush() {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	for {
		select {
		case frame := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			return
		}
	}
}
