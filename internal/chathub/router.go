package chathub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"hospitalchat/backend/internal/metrics"
	"hospitalchat/backend/internal/models"
)

var (
	errMissingStaffID   = errors.New("staffId is required")
	errMissingPatientID = errors.New("patientId is required")

	// ErrReservedID is returned for ids that name a shared cohort room.
	ErrReservedID = errors.New("id names a shared room")
)

// Direction describes one way a directed message can travel.
type Direction struct {
	From models.Cohort
	To   models.Cohort

	label          string
	deliverEvent   string
	recipientField string
	recipientLabel string
}

var (
	StaffToPatient = Direction{
		From:           models.CohortStaff,
		To:             models.CohortPatient,
		label:          "staff_to_patient",
		deliverEvent:   models.EventMessageFromStaff,
		recipientField: "patientId",
		recipientLabel: "Patient",
	}
	PatientToStaff = Direction{
		From:           models.CohortPatient,
		To:             models.CohortStaff,
		label:          "patient_to_staff",
		deliverEvent:   models.EventMessageFromPatient,
		recipientField: "staffId",
		recipientLabel: "Staff",
	}
)

// RouteRequest is a directed message with optional sender fields supplied by the client.
type RouteRequest struct {
	RecipientID models.FlexID
	Message     string
	SenderID    models.FlexID
	SenderName  string
}

// RouteResult tells the caller what happened to a routed message.
type RouteResult struct {
	TargetRoom string
	Recipients int
	Delivered  bool
}

func (m *ManagerService) handleStaffJoin(conn *Connection, data json.RawMessage) error {
	var req models.StaffJoinRequest
	if err := decodeJoin(data, &req, &req.StaffID); err != nil {
		return err
	}

	staffID := NormalizeID(models.CohortStaff, req.StaffID.Value)
	name := req.Name
	if staffID == "" && conn.Identity.IsVerified() && conn.Identity.StaffLike {
		staffID = conn.Identity.SubjectID
		if name == "" {
			name = conn.Identity.Name
		}
	}
	_, err := m.JoinAsStaff(conn, staffID, name)
	return err
}

func (m *ManagerService) handlePatientJoin(conn *Connection, data json.RawMessage) error {
	var req models.PatientJoinRequest
	if err := decodeJoin(data, &req, &req.PatientID); err != nil {
		return err
	}

	patientID := NormalizeID(models.CohortPatient, req.PatientID.Value)
	name := req.Name
	if patientID == "" && conn.Identity.IsVerified() && !conn.Identity.StaffLike {
		patientID = conn.Identity.SubjectID
		if name == "" {
			name = conn.Identity.Name
		}
	}
	_, err := m.JoinAsPatient(conn, patientID, name)
	return err
}

// decodeJoin accepts either an object payload or a bare string/number id.
func decodeJoin(data json.RawMessage, req any, bareID *models.FlexID) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		return json.Unmarshal(data, req)
	}
	id, err := models.ParseFlexID(data)
	if err != nil {
		return err
	}
	*bareID = id
	return nil
}

// JoinAsStaff puts the connection into its personal staff room and the staff cohort room.
// Calling it again with the same id only rejoins.
func (m *ManagerService) JoinAsStaff(conn *Connection, staffID, name string) (string, error) {
	staffID = NormalizeID(models.CohortStaff, staffID)
	if staffID == "" {
		return "", errMissingStaffID
	}
	if IsReservedID(models.CohortStaff, staffID) {
		return "", ErrReservedID
	}
	if name == "" {
		name = "Staff " + staffID
	}
	room := m.joinCohort(conn, models.CohortStaff, staffID, name)

	m.emit(conn.client, models.EventStaffJoined, models.StaffJoinedPayload{
		StaffID:  staffID,
		Name:     name,
		SocketID: conn.ID,
		Message:  "You are now connected as staff",
		Room:     room,
	})
	return room, nil
}

// JoinAsPatient normalizes the id ("patient-001" -> "001") and joins the patient rooms.
func (m *ManagerService) JoinAsPatient(conn *Connection, rawPatientID, name string) (string, error) {
	patientID := NormalizeID(models.CohortPatient, rawPatientID)
	if patientID == "" {
		return "", errMissingPatientID
	}
	if IsReservedID(models.CohortPatient, patientID) {
		return "", ErrReservedID
	}
	if name == "" {
		name = "Patient " + patientID
	}
	room := m.joinCohort(conn, models.CohortPatient, patientID, name)

	m.emit(conn.client, models.EventPatientJoined, models.PatientJoinedPayload{
		PatientID: patientID,
		Name:      name,
		SocketID:  conn.ID,
		Message:   "You are now connected as patient",
		Room:      room,
	})
	return room, nil
}

func (m *ManagerService) joinCohort(conn *Connection, cohort models.Cohort, id, name string) string {
	room := cohort.PersonalRoom(id)
	first := conn.setJoined(cohort, id, name)
	m.join(conn, room, cohort.Room())
	if first {
		m.markOnline(cohort, id)
	}

	m.log.Debug().
		Str("conn_id", conn.ID).
		Str("cohort", string(cohort)).
		Str("id", id).
		Str("room", room).
		Msg("joined")
	return room
}

func (m *ManagerService) handleStaffToPatient(conn *Connection, data json.RawMessage) error {
	var req models.StaffToPatientRequest
	if err := decodeObject(data, &req); err != nil {
		return err
	}
	m.Route(conn, StaffToPatient, RouteRequest{
		RecipientID: req.PatientID,
		Message:     req.Message,
		SenderID:    req.StaffID,
		SenderName:  req.StaffName,
	})
	return nil
}

func (m *ManagerService) handlePatientToStaff(conn *Connection, data json.RawMessage) error {
	var req models.PatientToStaffRequest
	if err := decodeObject(data, &req); err != nil {
		return err
	}
	m.Route(conn, PatientToStaff, RouteRequest{
		RecipientID: req.StaffID,
		Message:     req.Message,
		SenderID:    req.PatientID,
		SenderName:  req.PatientName,
	})
	return nil
}

// decodeObject treats a missing payload as an empty object so field validation reports it.
func decodeObject(data json.RawMessage, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Route delivers a directed message to the recipient's personal room, confirms to the
// sender, or tells the sender the recipient is not connected.
func (m *ManagerService) Route(conn *Connection, d Direction, req RouteRequest) RouteResult {
	recipient := ""
	if req.RecipientID.Set {
		recipient = NormalizeID(d.To, req.RecipientID.Value)
	}
	if recipient == "" || req.Message == "" {
		metrics.MessagesRouted.WithLabelValues(d.label, "invalid").Inc()
		m.sendError(conn, fmt.Sprintf("Missing required fields: %s or message", d.recipientField))
		return RouteResult{}
	}
	if IsReservedID(d.To, recipient) {
		metrics.MessagesRouted.WithLabelValues(d.label, "invalid").Inc()
		m.sendError(conn, fmt.Sprintf("Invalid %s: %s", d.recipientField, recipient))
		return RouteResult{}
	}

	targetRoom := d.To.PersonalRoom(recipient)
	timestamp := models.Timestamp(m.now())
	senderID, senderName := m.resolveSender(conn, d.From, req)

	var payload any
	if d.From == models.CohortStaff {
		payload = models.MessageFromStaffPayload{
			StaffID:   senderID,
			StaffName: senderName,
			Message:   req.Message,
			Timestamp: timestamp,
			Type:      models.MessageTypeText,
		}
	} else {
		payload = models.MessageFromPatientPayload{
			PatientID:   senderID,
			PatientName: senderName,
			Message:     req.Message,
			Timestamp:   timestamp,
			Type:        models.MessageTypeText,
		}
	}

	members := m.Rooms.Members(targetRoom)
	if len(members) == 0 {
		metrics.MessagesRouted.WithLabelValues(d.label, "not_connected").Inc()
		m.sendNotConnected(conn, d, recipient, targetRoom)
		return RouteResult{TargetRoom: targetRoom}
	}

	reached := 0
	for _, c := range members {
		if m.emit(c, d.deliverEvent, payload) {
			reached++
		}
	}
	metrics.MessagesRouted.WithLabelValues(d.label, "delivered").Inc()

	m.emit(conn.client, models.EventMessageSent, models.MessageSentPayload{
		To:        recipient,
		ToName:    d.recipientLabel,
		Message:   req.Message,
		Status:    models.StatusDelivered,
		Timestamp: timestamp,
		Room:      targetRoom,
	})
	return RouteResult{TargetRoom: targetRoom, Recipients: reached, Delivered: true}
}

func (m *ManagerService) sendNotConnected(conn *Connection, d Direction, recipient, targetRoom string) {
	available := m.Rooms.PersonalIDs(d.To)
	message := fmt.Sprintf("%s %s is not connected", d.recipientLabel, recipient)

	var payload any
	if d.To == models.CohortPatient {
		payload = models.PatientNotConnectedPayload{
			Message:           message,
			PatientID:         recipient,
			TargetRoom:        targetRoom,
			AvailablePatients: available,
		}
	} else {
		payload = models.StaffNotConnectedPayload{
			Message:        message,
			StaffID:        recipient,
			TargetRoom:     targetRoom,
			AvailableStaff: available,
		}
	}
	m.emit(conn.client, models.EventError, payload)
}

// resolveSender prefers the identity the connection joined with, then the
// client-supplied fields, then the handshake identity.
// TODO: client-supplied names from unjoined connections are spoofable; decide with product
// whether to require a join before sending.
func (m *ManagerService) resolveSender(conn *Connection, from models.Cohort, req RouteRequest) (string, string) {
	joinedID, joinedName := conn.Profile().Joined(from)
	if joinedID != "" {
		return joinedID, joinedName
	}
	fallbackName := "Patient"
	if from == models.CohortStaff {
		fallbackName = "Staff"
	}

	id := ""
	if req.SenderID.Set {
		id = NormalizeID(from, req.SenderID.Value)
	}
	name := req.SenderName

	if conn.Identity.IsVerified() {
		if id == "" {
			id = conn.Identity.SubjectID
		}
		if name == "" {
			name = conn.Identity.Name
		}
	}
	if name == "" {
		name = fallbackName
	}
	return id, name
}
