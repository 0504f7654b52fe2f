package handler

import (
	"net/http"

	"hospitalchat/backend/internal/auth"
	"hospitalchat/backend/internal/chathub"
	"hospitalchat/backend/internal/config"
	"hospitalchat/backend/internal/storage"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler holds what the HTTP routes need: the chat hub, the token resolver and the
// optional stores.
type Handler struct {
	Hub      *chathub.ManagerService
	Resolver *auth.Resolver
	Config   *config.Config
	Storage  *storage.Service

	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler wires the routes. store may be nil when neither Redis nor Postgres is configured.
func NewHandler(hub *chathub.ManagerService, resolver *auth.Resolver, cfg *config.Config, store *storage.Service, logger zerolog.Logger) *Handler {
	if store == nil {
		store = storage.NewStorageService(nil, nil)
	}
	return &Handler{
		Hub:      hub,
		Resolver: resolver,
		Config:   cfg,
		Storage:  store,
		log:      logger.With().Str("component", "http").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cfg.OriginAllowed(r.Header.Get("Origin"))
			},
		},
	}
}
