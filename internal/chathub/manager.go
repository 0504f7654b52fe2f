package chathub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hospitalchat/backend/internal/metrics"
	"hospitalchat/backend/internal/models"

	"github.com/rs/zerolog"
)

// PresenceStore mirrors which personal ids are online, e.g. into Redis.
type PresenceStore interface {
	MarkOnline(ctx context.Context, cohort models.Cohort, id string) error
	MarkOffline(ctx context.Context, cohort models.Cohort, id string) error
}

// SessionRecorder persists the audit record of a finished connection.
type SessionRecorder interface {
	RecordSession(ctx context.Context, session *models.ConnectionSession) error
}

type eventHandler struct {
	handle func(conn *Connection, data json.RawMessage) error
	// failure prefixes the error event sent when handle fails or panics.
	failure string
}

// ManagerService is the chat hub: it owns the connection registry and the room index
// and dispatches client events.
type ManagerService struct {
	Registry *Registry
	Rooms    *RoomIndex

	log      zerolog.Logger
	now      func() time.Time
	handlers map[string]eventHandler

	jobs         chan job
	presence     PresenceStore
	sessions     SessionRecorder
	storeTimeout time.Duration
}

type Option func(*ManagerService)

func WithLogger(l zerolog.Logger) Option {
	return func(m *ManagerService) { m.log = l.With().Str("component", "chathub").Logger() }
}

func WithClock(now func() time.Time) Option {
	return func(m *ManagerService) { m.now = now }
}

func WithPresenceStore(p PresenceStore) Option {
	return func(m *ManagerService) { m.presence = p }
}

func WithSessionRecorder(r SessionRecorder) Option {
	return func(m *ManagerService) { m.sessions = r }
}

func WithJobQueueSize(n int) Option {
	return func(m *ManagerService) { m.jobs = make(chan job, n) }
}

func WithStoreTimeout(d time.Duration) Option {
	return func(m *ManagerService) { m.storeTimeout = d }
}

func NewManagerService(opts ...Option) *ManagerService {
	m := &ManagerService{
		Registry:     NewRegistry(),
		Rooms:        NewRoomIndex(),
		log:          zerolog.Nop(),
		now:          time.Now,
		jobs:         make(chan job, 1024),
		storeTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.handlers = map[string]eventHandler{
		models.EventStaffJoin:      {handle: m.handleStaffJoin, failure: "Failed to join as staff"},
		models.EventPatientJoin:    {handle: m.handlePatientJoin, failure: "Failed to join as patient"},
		models.EventStaffToPatient: {handle: m.handleStaffToPatient, failure: "Failed to send message"},
		models.EventPatientToStaff: {handle: m.handlePatientToStaff, failure: "Failed to send message"},
		models.EventTyping:         {handle: m.handleTyping, failure: "Failed to send typing indicator"},
		models.EventGetRooms:       {handle: m.handleGetRooms, failure: "Failed to list rooms"},
		models.EventPing:           {handle: m.handlePing, failure: "Failed to answer ping"},
	}
	return m
}

// Register adds a freshly authenticated client and greets it.
func (m *ManagerService) Register(c Client, identity models.Identity) *Connection {
	conn := newConnection(c, identity, m.now())
	m.Registry.Add(conn)
	metrics.ConnectionsActive.Inc()

	m.log.Debug().
		Str("conn_id", conn.ID).
		Str("identity", string(identity.Kind)).
		Str("subject", identity.SubjectID).
		Msg("client registered")

	m.emit(c, models.EventConnected, models.ConnectedPayload{
		Message:   "Connected to chat server",
		SocketID:  conn.ID,
		Timestamp: models.Timestamp(conn.ConnectedAt),
	})
	return conn
}

// Unregister tears a connection down. It is a no-op for unknown or already removed ids,
// so teardown runs exactly once however many times it is called. It reports whether this
// call ran the teardown.
func (m *ManagerService) Unregister(connID, reason string) bool {
	conn, ok := m.Registry.Remove(connID)
	if !ok {
		return false
	}
	metrics.ConnectionsActive.Dec()

	rooms := m.Rooms.LeaveAll(connID)
	metrics.RoomsActive.Set(float64(m.Rooms.Len()))

	m.notifyOffline(conn)
	m.markOffline(conn)
	m.recordSession(conn, rooms, reason)
	conn.client.Close()

	m.log.Debug().
		Str("conn_id", connID).
		Str("reason", reason).
		Strs("rooms", rooms).
		Msg("client unregistered")
	return true
}

// Shutdown tears down every live connection and returns how many it closed.
// Run must still be draining jobs so their presence and audit work is queued and flushed.
func (m *ManagerService) Shutdown(reason string) int {
	closed := 0
	for _, id := range m.Registry.IDs() {
		if m.Unregister(id, reason) {
			closed++
		}
	}
	return closed
}

// HandleEnvelope dispatches one inbound event from connID. Failures are reported to the
// sender as error events and never escape to the caller.
func (m *ManagerService) HandleEnvelope(connID string, env models.Envelope) {
	conn, ok := m.Registry.Get(connID)
	if !ok {
		return
	}

	h, ok := m.handlers[env.Event]
	if !ok {
		metrics.EventsReceived.WithLabelValues("unknown").Inc()
		m.sendError(conn, fmt.Sprintf("Unknown event: %s", env.Event))
		return
	}
	metrics.EventsReceived.WithLabelValues(env.Event).Inc()

	defer func() {
		if r := recover(); r != nil {
			m.log.Error().
				Str("conn_id", connID).
				Str("event", env.Event).
				Interface("panic", r).
				Msg("event handler panicked")
			m.sendError(conn, h.failure)
		}
	}()

	if err := h.handle(conn, env.Data); err != nil {
		m.log.Debug().Err(err).Str("conn_id", connID).Str("event", env.Event).Msg("event rejected")
		m.sendError(conn, h.failure+": "+err.Error())
	}
}

// SendError reports a transport-level problem, such as an undecodable frame, to connID.
func (m *ManagerService) SendError(connID, message string) {
	if conn, ok := m.Registry.Get(connID); ok {
		m.sendError(conn, message)
	}
}

func (m *ManagerService) sendError(conn *Connection, message string) {
	m.emit(conn.client, models.EventError, models.ErrorPayload{Message: message})
}

// emit queues an event for one client without blocking. A full queue drops the event.
func (m *ManagerService) emit(c Client, name string, data any) bool {
	select {
	case c.GetSendChannel() <- models.Event{Name: name, Data: data}:
		return true
	default:
		metrics.EventsDropped.Inc()
		m.log.Warn().Str("conn_id", c.GetConnID()).Str("event", name).Msg("send queue full, event dropped")
		return false
	}
}

// broadcast emits to every member of room and returns how many members it reached.
func (m *ManagerService) broadcast(room, name string, data any) int {
	delivered := 0
	for _, c := range m.Rooms.Members(room) {
		if m.emit(c, name, data) {
			delivered++
		}
	}
	return delivered
}

func (m *ManagerService) join(conn *Connection, rooms ...string) {
	m.Rooms.Join(conn.client, rooms...)
	// The connection may have been torn down while joining.
	if _, ok := m.Registry.Get(conn.ID); !ok {
		m.Rooms.LeaveAll(conn.ID)
	}
	metrics.RoomsActive.Set(float64(m.Rooms.Len()))
}
