package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"hospitalchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Presence is kept as one hash per cohort: field = personal id, value = live connection count.
const presenceKeyPrefix = "presence:"

// decrementPresence lowers a counter and removes the field once it reaches zero.
var decrementPresence = redis.NewScript(`
local n = redis.call("HINCRBY", KEYS[1], ARGV[1], -1)
if n <= 0 then
	redis.call("HDEL", KEYS[1], ARGV[1])
	return 0
end
return n
`)

func presenceKey(cohort models.Cohort) string {
	return presenceKeyPrefix + string(cohort)
}

// MarkOnline counts one more live connection for the id.
func (s *Service) MarkOnline(ctx context.Context, cohort models.Cohort, id string) error {
	if s.Redis == nil {
		return ErrNotConfigured
	}
	if err := s.Redis.HIncrBy(ctx, presenceKey(cohort), id, 1).Err(); err != nil {
		return fmt.Errorf("mark %s %s online: %w", cohort, id, err)
	}
	return nil
}

// MarkOffline counts one connection less for the id.
func (s *Service) MarkOffline(ctx context.Context, cohort models.Cohort, id string) error {
	if s.Redis == nil {
		return ErrNotConfigured
	}
	if err := decrementPresence.Run(ctx, s.Redis, []string{presenceKey(cohort)}, id).Err(); err != nil {
		return fmt.Errorf("mark %s %s offline: %w", cohort, id, err)
	}
	return nil
}

// Online lists the ids of a cohort that have at least one live connection.
func (s *Service) Online(ctx context.Context, cohort models.Cohort) ([]string, error) {
	if s.Redis == nil {
		return nil, ErrNotConfigured
	}
	counts, err := s.Redis.HGetAll(ctx, presenceKey(cohort)).Result()
	if err != nil {
		return nil, fmt.Errorf("list online %s: %w", cohort, err)
	}
	return onlineIDs(counts), nil
}

// ResetPresence clears the mirror. The server calls it at startup since counters from a
// previous process are stale.
func (s *Service) ResetPresence(ctx context.Context) error {
	if s.Redis == nil {
		return ErrNotConfigured
	}
	err := s.Redis.Del(ctx, presenceKey(models.CohortStaff), presenceKey(models.CohortPatient)).Err()
	if err != nil {
		return fmt.Errorf("reset presence: %w", err)
	}
	return nil
}

func onlineIDs(counts map[string]string) []string {
	ids := make([]string, 0, len(counts))
	for id, raw := range counts {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
