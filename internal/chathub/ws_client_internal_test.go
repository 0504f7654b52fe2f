package chathub

import (
	"errors"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestCloseReason(t *testing.T) {
	assert.Equal(t, "client closed", closeReason(&websocket.CloseError{Code: websocket.CloseNormalClosure}))
	assert.Equal(t, "going away", closeReason(&websocket.CloseError{Code: websocket.CloseGoingAway}))
	assert.Equal(t, "close 1011", closeReason(&websocket.CloseError{Code: websocket.CloseInternalServerErr}))
	assert.Equal(t, "bye", closeReason(&websocket.CloseError{Code: websocket.CloseNormalClosure, Text: "bye"}))
	assert.Equal(t, "transport error", closeReason(errors.New("read tcp: reset")))
}
