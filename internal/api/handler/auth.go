package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IssueToken signs a handshake token for local testing. It is only routed in development.
//
//	GET /token?id=12&name=Dr%20House&role=doctor&hours=8
func (h *Handler) IssueToken(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		id = uuid.NewString()
	}
	role := c.DefaultQuery("role", "patient")

	ttl := h.Config.TokenTTL
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
			return
		}
		ttl = time.Duration(hours) * time.Hour
	}

	token, err := h.Resolver.Issue(id, c.Query("name"), role, ttl)
	if err != nil {
		h.log.Error().Err(err).Msg("issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"id":        id,
		"role":      role,
		"staffLike": h.Resolver.IsStaffRole(role),
		"expiresIn": int(ttl.Seconds()),
	})
}
