package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zaqqye/enrollment_backend/internal/enrollment"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

type hubMessage struct {
	grade   int
	payload []byte
}

// EnrollmentHub pushes roster events to connected dashboards. A client may
// restrict itself to a single grade.
type EnrollmentHub struct {
	register   chan *hubClient
	unregister chan *hubClient
	broadcast  chan hubMessage
	clients    map[*hubClient]struct{}
	done       chan struct{}
}

var _ enrollment.Notifier = (*EnrollmentHub)(nil)

func NewEnrollmentHub() *EnrollmentHub {
	return &EnrollmentHub{
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		broadcast:  make(chan hubMessage, 256),
		clients:    make(map[*hubClient]struct{}),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled.
func (h *EnrollmentHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.grade != 0 && client.grade != msg.grade {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					h.drop(client)
				}
			}
		}
	}
}

func (h *EnrollmentHub) drop(client *hubClient) {
	delete(h.clients, client)
	close(client.send)
	client.conn.Close()
}

// Publish queues the event for delivery. Events are dropped when the queue is full.
func (h *EnrollmentHub) Publish(ev enrollment.Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- hubMessage{grade: ev.Student.Grade, payload: data}:
	default:
		log.Printf("ws: broadcast queue full, dropping %s event for %s", ev.Type, ev.Student.EnrollmentID)
	}
}

type hubClient struct {
	hub   *EnrollmentHub
	conn  *websocket.Conn
	send  chan []byte
	grade int
}

func newHubClient(hub *EnrollmentHub, conn *websocket.Conn, grade int) *hubClient {
	return &hubClient{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		grade: grade,
	}
}

func (c *hubClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
