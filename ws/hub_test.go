package ws

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected broadcast: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubTopicFiltering(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	subscribed := &Client{Send: make(chan []byte, 4), Topics: map[string]bool{"department:1": true}}
	all := &Client{Send: make(chan []byte, 4), Topics: map[string]bool{}}
	hub.Register <- subscribed
	hub.Register <- all

	hub.PublishTopic("department:1", []byte("one"))
	assert.Equal(t, "one", string(recv(t, subscribed)))
	assert.Equal(t, "one", string(recv(t, all)))

	hub.PublishTopic("department:2", []byte("two"))
	assert.Equal(t, "two", string(recv(t, all)))
	expectNothing(t, subscribed)

	hub.PublishAll([]byte("everyone"))
	assert.Equal(t, "everyone", string(recv(t, subscribed)))
	assert.Equal(t, "everyone", string(recv(t, all)))
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	slow := &Client{Send: make(chan []byte, 1), Topics: map[string]bool{}}
	hub.Register <- slow

	// The second message finds the buffer full; the hub closes the client
	// instead of blocking the broadcast loop.
	hub.PublishAll([]byte("first"))
	hub.PublishAll([]byte("second"))

	assert.Equal(t, "first", string(recv(t, slow)))
	select {
	case _, open := <-slow.Send:
		assert.False(t, open, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := &Client{Send: make(chan []byte, 4), Topics: map[string]bool{}}
	hub.Register <- client
	hub.Unregister <- client

	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
