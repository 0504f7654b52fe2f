package storage

import (
	"context"
	"testing"

	"hospitalchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPresenceKey(t *testing.T) {
	assert.Equal(t, "presence:staff", presenceKey(models.CohortStaff))
	assert.Equal(t, "presence:patient", presenceKey(models.CohortPatient))
}

func TestOnlineIDs(t *testing.T) {
	counts := map[string]string{
		"10":  "2",
		"7":   "1",
		"3":   "0",
		"bad": "x",
		"-1":  "-1",
	}
	assert.Equal(t, []string{"10", "7"}, onlineIDs(counts))
	assert.Empty(t, onlineIDs(nil))
}

func TestUnconfiguredStores(t *testing.T) {
	s := NewStorageService(nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, s.MarkOnline(ctx, models.CohortStaff, "1"), ErrNotConfigured)
	assert.ErrorIs(t, s.MarkOffline(ctx, models.CohortStaff, "1"), ErrNotConfigured)
	_, err := s.Online(ctx, models.CohortPatient)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.ResetPresence(ctx), ErrNotConfigured)
	assert.ErrorIs(t, s.RecordSession(ctx, &models.ConnectionSession{}), ErrNotConfigured)
	_, err = s.RecentSessions(ctx, 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.Migrate(), ErrNotConfigured)
	assert.ErrorIs(t, s.PingDB(ctx), ErrNotConfigured)
	assert.ErrorIs(t, s.PingRedis(ctx), ErrNotConfigured)
	assert.NoError(t, s.Close())
}
