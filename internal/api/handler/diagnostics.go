package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hospitalchat/backend/internal/models"
	"hospitalchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Check is the outcome of one dependency probe.
type Check struct {
	Status  string `json:"status"` // "pass", "fail" or "skip"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status      string           `json:"status"` // "healthy" or "degraded"
	Connections int              `json:"connections"`
	Rooms       int              `json:"rooms"`
	Checks      map[string]Check `json:"checks"`
	Timestamp   string           `json:"timestamp"`
}

// Health reports hub counters and probes the stores that are configured.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]Check{
		"postgres": probe(ctx, h.Storage.PingDB),
		"redis":    probe(ctx, h.Storage.PingRedis),
	}

	status, code := "healthy", http.StatusOK
	for _, check := range checks {
		if check.Status == "fail" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	stats := h.Hub.Stats()
	c.JSON(code, HealthResponse{
		Status:      status,
		Connections: stats.Connections,
		Rooms:       stats.Total,
		Checks:      checks,
		Timestamp:   stats.Timestamp,
	})
}

func probe(ctx context.Context, ping func(context.Context) error) Check {
	start := time.Now()
	err := ping(ctx)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		return Check{Status: "skip", Message: "not configured"}
	case err != nil:
		return Check{Status: "fail", Message: "connection failed"}
	default:
		return Check{Status: "pass", Latency: time.Since(start).String()}
	}
}

// Rooms returns the same listing as the get-rooms event, plus the connection count.
func (h *Handler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.Hub.Stats())
}

// Presence lists the personal ids of a cohort that are online. The Redis mirror is used
// when configured; otherwise this process's own rooms answer.
func (h *Handler) Presence(c *gin.Context) {
	cohort := models.Cohort(c.Param("cohort"))
	if !cohort.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown cohort"})
		return
	}

	source := "redis"
	ids, err := h.Storage.Online(c.Request.Context(), cohort)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		source = "local"
		ids = h.Hub.Rooms.PersonalIDs(cohort)
	case err != nil:
		h.log.Error().Err(err).Str("cohort", string(cohort)).Msg("read presence")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "presence store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cohort": cohort,
		"online": ids,
		"total":  len(ids),
		"source": source,
	})
}
