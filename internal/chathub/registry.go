package chathub

import (
	"sync"
	"time"

	"hospitalchat/backend/internal/models"
)

// Connection is the hub-side record of one live client.
type Connection struct {
	ID          string
	Identity    models.Identity
	ConnectedAt time.Time

	client Client

	mu        sync.RWMutex
	profile   Profile
	announced []presenceKey
}

// Profile holds what a connection declared through join events.
// A connection may carry both a staff and a patient id, each with its own name.
type Profile struct {
	StaffID     string
	StaffName   string
	PatientID   string
	PatientName string
}

// Joined returns the id and name the connection joined the cohort with.
func (p Profile) Joined(cohort models.Cohort) (id, name string) {
	if cohort == models.CohortStaff {
		return p.StaffID, p.StaffName
	}
	return p.PatientID, p.PatientName
}

type presenceKey struct {
	cohort models.Cohort
	id     string
}

func newConnection(c Client, identity models.Identity, now time.Time) *Connection {
	return &Connection{
		ID:          c.GetConnID(),
		Identity:    identity,
		ConnectedAt: now,
		client:      c,
	}
}

// Profile returns a copy of the joined profile.
func (c *Connection) Profile() Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// setJoined records a join and reports whether this cohort id is new for the connection.
func (c *Connection) setJoined(cohort models.Cohort, id, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cohort {
	case models.CohortStaff:
		c.profile.StaffID, c.profile.StaffName = id, name
	case models.CohortPatient:
		c.profile.PatientID, c.profile.PatientName = id, name
	}

	key := presenceKey{cohort: cohort, id: id}
	for _, k := range c.announced {
		if k == key {
			return false
		}
	}
	c.announced = append(c.announced, key)
	return true
}

func (c *Connection) announcedKeys() []presenceKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]presenceKey(nil), c.announced...)
}

// Registry tracks every live connection by id.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

func (r *Registry) Add(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
}

// Remove deletes the connection and reports whether it was present.
// Only the caller that gets ok == true may run teardown.
func (r *Registry) Remove(id string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	return c, ok
}

func (r *Registry) Get(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

// IDs returns the ids of every live connection.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
