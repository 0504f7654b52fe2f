package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandshakeToken(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		header string
		cookie string
		want   string
	}{
		{name: "none", url: "/ws"},
		{name: "query", url: "/ws?token=q", want: "q"},
		{name: "bearer header", url: "/ws", header: "Bearer h", want: "h"},
		{name: "lowercase bearer", url: "/ws", header: "bearer h", want: "h"},
		{name: "non-bearer header ignored", url: "/ws", header: "Basic xyz"},
		{name: "cookie", url: "/ws", cookie: "c", want: "c"},
		{name: "query wins", url: "/ws?token=q", header: "Bearer h", cookie: "c", want: "q"},
		{name: "header before cookie", url: "/ws", header: "Bearer h", cookie: "c", want: "h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			assert.Equal(t, tt.want, handshakeToken(r))
		})
	}
}
