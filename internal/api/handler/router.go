package handler

import (
	"hospitalchat/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with every HTTP route of the chat server.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(h.log))
	r.Use(middleware.Metrics())

	r.GET("/ws", h.ServeWebSocket)
	r.GET("/healthz", h.Health)
	r.GET("/rooms", h.Rooms)
	r.GET("/presence/:cohort", h.Presence)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.Config.IsDevelopment() {
		r.GET("/token", h.IssueToken)
	}
	return r
}
