package chathub

import (
	"context"
	"encoding/json"
	"strings"

	"hospitalchat/backend/internal/models"

	"github.com/lib/pq"
)

func (m *ManagerService) handleTyping(conn *Connection, data json.RawMessage) error {
	var req models.TypingRequest
	if err := decodeObject(data, &req); err != nil {
		return err
	}
	m.NotifyTyping(conn, req.Target, req.IsTyping, req.UserID.Value)
	return nil
}

// NotifyTyping broadcasts a typing state to targetRoom. An empty target is ignored.
// It returns the number of members reached.
func (m *ManagerService) NotifyTyping(conn *Connection, targetRoom string, isTyping bool, fallbackUserID string) int {
	targetRoom = strings.TrimSpace(targetRoom)
	if targetRoom == "" {
		return 0
	}

	profile := conn.Profile()
	userID, userName := profile.Joined(models.CohortStaff)
	if userID == "" {
		userID, userName = profile.Joined(models.CohortPatient)
	}
	if userID == "" {
		userID = fallbackUserID
	}
	if userName == "" && conn.Identity.IsVerified() {
		userName = conn.Identity.Name
	}

	return m.broadcast(targetRoom, models.EventUserTyping, models.UserTypingPayload{
		UserID:    userID,
		UserName:  userName,
		IsTyping:  isTyping,
		Timestamp: models.Timestamp(m.now()),
	})
}

// notifyOffline runs after the connection has left its rooms, so it never hears its own notice.
func (m *ManagerService) notifyOffline(conn *Connection) {
	profile := conn.Profile()
	timestamp := models.Timestamp(m.now())

	if profile.StaffID != "" {
		m.broadcast(models.CohortStaff.Room(), models.EventStaffOffline, models.StaffOfflinePayload{
			StaffID:   profile.StaffID,
			SocketID:  conn.ID,
			Timestamp: timestamp,
		})
	}
	if profile.PatientID != "" {
		m.broadcast(models.CohortPatient.Room(), models.EventPatientOffline, models.PatientOfflinePayload{
			PatientID: profile.PatientID,
			SocketID:  conn.ID,
			Timestamp: timestamp,
		})
	}
}

func (m *ManagerService) markOnline(cohort models.Cohort, id string) {
	if m.presence == nil {
		return
	}
	m.enqueue("presence_online", func(ctx context.Context) error {
		return m.presence.MarkOnline(ctx, cohort, id)
	})
}

func (m *ManagerService) markOffline(conn *Connection) {
	if m.presence == nil {
		return
	}
	for _, key := range conn.announcedKeys() {
		m.enqueue("presence_offline", func(ctx context.Context) error {
			return m.presence.MarkOffline(ctx, key.cohort, key.id)
		})
	}
}

func (m *ManagerService) recordSession(conn *Connection, rooms []string, reason string) {
	if m.sessions == nil {
		return
	}
	profile := conn.Profile()
	session := &models.ConnectionSession{
		ID:             conn.ID,
		IdentityKind:   string(conn.Identity.Kind),
		SubjectID:      conn.Identity.SubjectID,
		Role:           conn.Identity.Role,
		StaffID:        profile.StaffID,
		PatientID:      profile.PatientID,
		Rooms:          pq.StringArray(rooms),
		ConnectedAt:    conn.ConnectedAt,
		DisconnectedAt: m.now(),
		Reason:         reason,
	}
	m.enqueue("session_audit", func(ctx context.Context) error {
		return m.sessions.RecordSession(ctx, session)
	})
}
