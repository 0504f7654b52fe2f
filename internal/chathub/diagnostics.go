package chathub

import (
	"encoding/json"

	"hospitalchat/backend/internal/models"
)

// Stats is a point-in-time view of the hub.
type Stats struct {
	Connections int               `json:"connections"`
	Rooms       []models.RoomInfo `json:"rooms"`
	Total       int               `json:"total"`
	Timestamp   string            `json:"timestamp"`
}

// ListRooms returns every live room with its member count.
func (m *ManagerService) ListRooms() []models.RoomInfo {
	return m.Rooms.List()
}

func (m *ManagerService) Stats() Stats {
	rooms := m.Rooms.List()
	return Stats{
		Connections: m.Registry.Len(),
		Rooms:       rooms,
		Total:       len(rooms),
		Timestamp:   models.Timestamp(m.now()),
	}
}

func (m *ManagerService) handleGetRooms(conn *Connection, _ json.RawMessage) error {
	rooms := m.ListRooms()
	m.emit(conn.client, models.EventRoomsList, models.RoomsListPayload{
		Rooms:     rooms,
		Total:     len(rooms),
		Timestamp: models.Timestamp(m.now()),
	})
	return nil
}

func (m *ManagerService) handlePing(conn *Connection, _ json.RawMessage) error {
	m.emit(conn.client, models.EventPong, models.PongPayload{
		Message:      "Server is alive",
		Timestamp:    models.Timestamp(m.now()),
		YourSocketID: conn.ID,
	})
	return nil
}
