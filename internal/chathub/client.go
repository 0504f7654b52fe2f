package chathub

import "hospitalchat/backend/internal/models"

// Client is the interface for one live transport session.
// It abstracts the underlying connection so the hub can be driven by tests
// and by the WebSocket transport alike.
type Client interface {
	// GetConnID returns the server-assigned connection id.
	GetConnID() string

	// GetSendChannel returns the queue the hub writes outbound events to.
	// The hub only ever performs non-blocking sends on it and never closes it.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close stops the client's write side. It must be safe to call more than once.
	Close()
}
