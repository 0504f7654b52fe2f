package models_test

import (
	"reflect"
	"testing"
	"time"

	"hospitalchat/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestSessionBeforeCreate_GeneratesUUID verifies that the hook fills in a valid UUID.
func TestSessionBeforeCreate_GeneratesUUID(t *testing.T) {
	session := &models.ConnectionSession{
		IdentityKind: string(models.IdentityGuest),
		Rooms:        pq.StringArray{"staff-10", "staff-room"},
	}
	assert.Empty(t, session.ID)

	err := session.BeforeCreate(nil)

	assert.NoError(t, err)
	parsed, parseErr := uuid.Parse(session.ID)
	assert.NoError(t, parseErr, "ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestSessionBeforeCreate_PreservesConnectionID verifies the connection id is kept as the primary key.
func TestSessionBeforeCreate_PreservesConnectionID(t *testing.T) {
	connID := uuid.NewString()
	session := &models.ConnectionSession{ID: connID}

	assert.NoError(t, session.BeforeCreate(nil))
	assert.Equal(t, connID, session.ID)
}

func TestSessionDuration(t *testing.T) {
	start := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	session := &models.ConnectionSession{ConnectedAt: start}
	assert.Zero(t, session.Duration(), "open session has no duration")

	session.DisconnectedAt = start.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, session.Duration())
}

// TestSessionStructTags catches accidental tag removal during refactoring.
func TestSessionStructTags(t *testing.T) {
	sessionType := reflect.TypeOf(models.ConnectionSession{})

	idField, found := sessionType.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	roomsField, found := sessionType.FieldByName("Rooms")
	assert.True(t, found)
	assert.Contains(t, roomsField.Tag.Get("gorm"), "type:text[]", "Rooms should use PostgreSQL array type")
}
