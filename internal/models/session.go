package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ConnectionSession is the audit record of a finished connection.
// It records who was connected and which rooms they joined, never message content.
type ConnectionSession struct {
	ID             string         `gorm:"primaryKey" json:"id"` // connection id
	IdentityKind   string         `gorm:"type:text;not null" json:"identityKind"`
	SubjectID      string         `gorm:"index" json:"subjectId"`
	Role           string         `json:"role"`
	StaffID        string         `gorm:"index" json:"staffId"`
	PatientID      string         `gorm:"index" json:"patientId"`
	Rooms          pq.StringArray `gorm:"type:text[]" json:"rooms"`
	ConnectedAt    time.Time      `json:"connectedAt"`
	DisconnectedAt time.Time      `gorm:"index" json:"disconnectedAt"`
	Reason         string         `json:"reason"`
}

// BeforeCreate fills in an ID for records created outside the hub.
func (s *ConnectionSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// Duration is how long the connection stayed open.
func (s *ConnectionSession) Duration() time.Duration {
	if s.DisconnectedAt.IsZero() || s.ConnectedAt.IsZero() {
		return 0
	}
	return s.DisconnectedAt.Sub(s.ConnectedAt)
}
