package chathub_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"hospitalchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient is a test double for the chathub.Client interface.
type MockClient struct {
	connID string
	send   chan models.Event
	closed atomic.Int32
}

func newMockClient(connID string) *MockClient {
	return &MockClient{
		connID: connID,
		send:   make(chan models.Event, 64), // Buffered so the hub never drops in tests
	}
}

func newMockClientWithBuffer(connID string, size int) *MockClient {
	return &MockClient{connID: connID, send: make(chan models.Event, size)}
}

func (c *MockClient) GetConnID() string                   { return c.connID }
func (c *MockClient) GetSendChannel() chan<- models.Event { return c.send }
func (c *MockClient) Run()                                {}
func (c *MockClient) Close()                              { c.closed.Add(1) }

// DrainMessages returns every queued event and empties the queue.
func (c *MockClient) DrainMessages() []models.Event {
	var events []models.Event
	for {
		select {
		case ev := <-c.send:
			events = append(events, ev)
		default:
			return events
		}
	}
}

// eventsNamed filters drained events by name.
func eventsNamed(events []models.Event, name string) []models.Event {
	var out []models.Event
	for _, ev := range events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

func envelope(t *testing.T, event string, data any) models.Envelope {
	t.Helper()
	if data == nil {
		return models.Envelope{Event: event}
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return models.Envelope{Event: event, Data: raw}
}

// MockPresenceStore records presence mirror calls.
type MockPresenceStore struct {
	mock.Mock
}

func (m *MockPresenceStore) MarkOnline(ctx context.Context, cohort models.Cohort, id string) error {
	args := m.Called(cohort, id)
	return args.Error(0)
}

func (m *MockPresenceStore) MarkOffline(ctx context.Context, cohort models.Cohort, id string) error {
	args := m.Called(cohort, id)
	return args.Error(0)
}

// MockSessionRecorder records audit writes.
type MockSessionRecorder struct {
	mock.Mock
}

func (m *MockSessionRecorder) RecordSession(ctx context.Context, session *models.ConnectionSession) error {
	args := m.Called(session)
	return args.Error(0)
}
