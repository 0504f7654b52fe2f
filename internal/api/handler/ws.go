package handler

import (
	"net/http"
	"strings"

	"hospitalchat/backend/internal/chathub"

	"github.com/gin-gonic/gin"
)

// ServeWebSocket upgrades the request and registers the socket with the hub. A missing or
// invalid token never rejects the handshake; the connection is registered as a guest.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	identity := h.Resolver.Authenticate(handshakeToken(c.Request))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written the error response.
		h.log.Debug().Err(err).Str("remote_addr", c.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, h.Config.SendBuffer)
	h.Hub.Register(client, identity)
	client.Run()
}

// handshakeToken looks for the credential in the query string, then the Authorization
// header, then the session cookie.
func handshakeToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if header := r.Header.Get("Authorization"); len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}
