package notification

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// Event is a real-time schedule change pushed to dashboard clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventBooked      = "appointment_booked"
	EventCancelled   = "appointment_cancelled"
	EventRescheduled = "appointment_rescheduled"
)

// connection represents a single WebSocket client
type connection struct {
	subject string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub manages all active WebSocket connections and fans out
// appointment lifecycle events to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]bool
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[*connection]bool),
		log:         log,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		select {
		case c.send <- data:
		default:
			// client too slow; skip
		}
	}
}

// AppointmentBooked implements booking.EventPublisher.
func (h *Hub) AppointmentBooked(a *domain.Appointment) {
	h.Broadcast(&Event{
		Type: EventBooked,
		Payload: map[string]interface{}{
			"id":               a.ID,
			"business_id":      a.BusinessID,
			"date":             a.Date,
			"start_time":       a.StartTime,
			"duration_minutes": a.DurationMinutes,
			"staff_id":         a.StaffID,
			"service_id":       a.ServiceID,
		},
	})
}

// AppointmentCancelled implements booking.EventPublisher.
func (h *Hub) AppointmentCancelled(id int64, date, startTime string) {
	h.Broadcast(&Event{
		Type: EventCancelled,
		Payload: map[string]interface{}{
			"id":         id,
			"date":       date,
			"start_time": startTime,
		},
	})
}

// AppointmentRescheduled announces a completed move: the replacement
// booking and the appointment it supersedes.
func (h *Hub) AppointmentRescheduled(oldID int64, replacement *domain.Appointment) {
	h.Broadcast(&Event{
		Type: EventRescheduled,
		Payload: map[string]interface{}{
			"old_id":     oldID,
			"id":         replacement.ID,
			"date":       replacement.Date,
			"start_time": replacement.StartTime,
		},
	})
}

// ServeWS registers a new connection and starts read/write loops
func (h *Hub) ServeWS(conn *websocket.Conn, subject string) {
	c := &connection{
		subject: subject,
		conn:    conn,
		send:    make(chan []byte, 256),
	}

	h.register(c)
	h.log.Info("dashboard client connected", zap.String("subject", subject))

	go h.writePump(c)
	h.readPump(c) // blocks until disconnect
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.log.Info("dashboard client disconnected", zap.String("subject", c.subject))
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The feed is one-way; inbound frames only keep the connection alive.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
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
