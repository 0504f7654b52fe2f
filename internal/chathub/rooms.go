package chathub

import (
	"sort"
	"strings"
	"sync"

	"hospitalchat/backend/internal/models"
)

// RoomIndex maps room names to member connections.
// A room exists only while it has at least one member.
type RoomIndex struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Client
	byConn map[string]map[string]struct{}
}

func NewRoomIndex() *RoomIndex {
	return &RoomIndex{
		rooms:  make(map[string]map[string]Client),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join adds c to every named room. Joining a room twice is a no-op.
func (x *RoomIndex) Join(c Client, rooms ...string) {
	id := c.GetConnID()

	x.mu.Lock()
	defer x.mu.Unlock()

	joined := x.byConn[id]
	if joined == nil {
		joined = make(map[string]struct{})
		x.byConn[id] = joined
	}
	for _, room := range rooms {
		members := x.rooms[room]
		if members == nil {
			members = make(map[string]Client)
			x.rooms[room] = members
		}
		members[id] = c
		joined[room] = struct{}{}
	}
}

// LeaveAll removes the connection from every room and returns the rooms it left, sorted.
func (x *RoomIndex) LeaveAll(connID string) []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	joined := x.byConn[connID]
	delete(x.byConn, connID)

	left := make([]string, 0, len(joined))
	for room := range joined {
		if members, ok := x.rooms[room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(x.rooms, room)
			}
		}
		left = append(left, room)
	}
	sort.Strings(left)
	return left
}

// Members returns a snapshot of the room's members.
func (x *RoomIndex) Members(room string) []Client {
	x.mu.RLock()
	defer x.mu.RUnlock()

	members := x.rooms[room]
	out := make([]Client, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}
	return out
}

func (x *RoomIndex) Exists(room string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rooms[room]) > 0
}

// RoomsOf returns the rooms a connection belongs to, sorted.
func (x *RoomIndex) RoomsOf(connID string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]string, 0, len(x.byConn[connID]))
	for room := range x.byConn[connID] {
		out = append(out, room)
	}
	sort.Strings(out)
	return out
}

// List returns every live room with its member count, sorted by name.
func (x *RoomIndex) List() []models.RoomInfo {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]models.RoomInfo, 0, len(x.rooms))
	for name, members := range x.rooms {
		out = append(out, models.RoomInfo{Name: name, Clients: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PersonalIDs returns the ids of live personal rooms in a cohort, prefix stripped, sorted.
func (x *RoomIndex) PersonalIDs(cohort models.Cohort) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	prefix := cohort.Prefix()
	shared := cohort.Room()
	out := []string{}
	for name := range x.rooms {
		if name == shared || !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, strings.TrimPrefix(name, prefix))
	}
	sort.Strings(out)
	return out
}

func (x *RoomIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rooms)
}
