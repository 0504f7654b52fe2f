package models

import (
	"encoding/json"
	"time"
)

// Inbound events sent by clients.
const (
	EventStaffJoin      = "staff-join"
	EventPatientJoin    = "patient-join"
	EventStaffToPatient = "staff-to-patient"
	EventPatientToStaff = "patient-to-staff"
	EventTyping         = "typing"
	EventGetRooms       = "get-rooms"
	EventPing           = "ping"
)

// Outbound events emitted by the hub.
const (
	EventConnected          = "connected"
	EventStaffJoined        = "staff-joined"
	EventPatientJoined      = "patient-joined"
	EventMessageFromStaff   = "message-from-staff"
	EventMessageFromPatient = "message-from-patient"
	EventMessageSent        = "message-sent"
	EventError              = "error"
	EventUserTyping         = "user-typing"
	EventRoomsList          = "rooms-list"
	EventPong               = "pong"
	EventStaffOffline       = "staff-offline"
	EventPatientOffline     = "patient-offline"
)

const (
	MessageTypeText = "text"
	StatusDelivered = "delivered"
)

// Envelope is an inbound frame. Data is decoded by the handler registered for Event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is an outbound frame.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Timestamp formats t the way every outbound payload carries it.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

type StaffJoinRequest struct {
	StaffID FlexID `json:"staffId"`
	Name    string `json:"name"`
}

type PatientJoinRequest struct {
	PatientID FlexID `json:"patientId"`
	Name      string `json:"name"`
}

type StaffToPatientRequest struct {
	PatientID FlexID `json:"patientId"`
	Message   string `json:"message"`
	StaffID   FlexID `json:"staffId"`
	StaffName string `json:"staffName"`
}

type PatientToStaffRequest struct {
	StaffID     FlexID `json:"staffId"`
	Message     string `json:"message"`
	PatientID   FlexID `json:"patientId"`
	PatientName string `json:"patientName"`
}

type TypingRequest struct {
	Target   string `json:"target"`
	IsTyping bool   `json:"isTyping"`
	UserID   FlexID `json:"userId"`
}

type ConnectedPayload struct {
	Message   string `json:"message"`
	SocketID  string `json:"socketId"`
	Timestamp string `json:"timestamp"`
}

type StaffJoinedPayload struct {
	StaffID  string `json:"staffId"`
	Name     string `json:"name"`
	SocketID string `json:"socketId"`
	Message  string `json:"message"`
	Room     string `json:"room"`
}

type PatientJoinedPayload struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
	SocketID  string `json:"socketId"`
	Message   string `json:"message"`
	Room      string `json:"room"`
}

type MessageFromStaffPayload struct {
	StaffID   string `json:"staffId"`
	StaffName string `json:"staffName"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

type MessageFromPatientPayload struct {
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
}

type MessageSentPayload struct {
	To        string `json:"to"`
	ToName    string `json:"toName"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Room      string `json:"room"`
}

// ErrorPayload is the generic error event body.
type ErrorPayload struct {
	Message string `json:"message"`
}

// PatientNotConnectedPayload is sent when a staff message targets an empty patient room.
// AvailablePatients is a debugging aid and not a stable contract.
type PatientNotConnectedPayload struct {
	Message           string   `json:"message"`
	PatientID         string   `json:"patientId"`
	TargetRoom        string   `json:"targetRoom"`
	AvailablePatients []string `json:"availablePatients"`
}

type StaffNotConnectedPayload struct {
	Message        string   `json:"message"`
	StaffID        string   `json:"staffId"`
	TargetRoom     string   `json:"targetRoom"`
	AvailableStaff []string `json:"availableStaff"`
}

type UserTypingPayload struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	IsTyping  bool   `json:"isTyping"`
	Timestamp string `json:"timestamp"`
}

type RoomsListPayload struct {
	Rooms     []RoomInfo `json:"rooms"`
	Total     int        `json:"total"`
	Timestamp string     `json:"timestamp"`
}

type PongPayload struct {
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	YourSocketID string `json:"yourSocketId"`
}

type StaffOfflinePayload struct {
	StaffID   string `json:"staffId"`
	SocketID  string `json:"socketId"`
	Timestamp string `json:"timestamp"`
}

type PatientOfflinePayload struct {
	PatientID string `json:"patientId"`
	SocketID  string `json:"socketId"`
	Timestamp string `json:"timestamp"`
}
