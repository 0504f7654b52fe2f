package chathub_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"hospitalchat/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_GetAndLen(t *testing.T) {
	hub := newHub()
	hub.Register(newMockClient("a"), models.GuestIdentity())

	conn, ok := hub.Registry.Get("a")
	assert.True(t, ok)
	assert.Equal(t, fixedNow, conn.ConnectedAt)
	assert.Equal(t, models.IdentityGuest, conn.Identity.Kind)

	_, ok = hub.Registry.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, hub.Registry.Len())
}

func TestRegistry_RemoveWinsOnce(t *testing.T) {
	hub := newHub()
	hub.Register(newMockClient("a"), models.GuestIdentity())

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := hub.Registry.Remove("a"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
	assert.Zero(t, hub.Registry.Len())
}

func TestConcurrentUnregister_ClosesOnce(t *testing.T) {
	hub := newHub()
	client := newMockClient("a")
	hub.Register(client, models.GuestIdentity())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Unregister("a", "transport close")
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, client.closed.Load())
}
