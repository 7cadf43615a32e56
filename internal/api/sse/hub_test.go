package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "test-event",
			data:      "hello world",
			expected:  "event: test-event\ndata: hello world\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "session.started",
			data:      "{\n  \"a\": 1\n}",
			expected:  "event: session.started\ndata: {\ndata:   \"a\": 1\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"hello"}, splitLines("hello"))
	assert.Equal(t, []string{"line1", "line2"}, splitLines("line1\nline2"))
	assert.Equal(t, []string{"line1"}, splitLines("line1\n"))
	assert.Equal(t, []string{""}, splitLines(""))
	assert.Equal(t, []string{"line1", "line2"}, splitLines("line1\r\nline2\r\n"))
}

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func playerEvent(steamID string) events.Event {
	return events.ForPlayer("evt", events.TypeSessionStarted, &model.Player{ID: 1, SteamID64: steamID}, time.Now(), nil)
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestHubRegisterAndPublish(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient("")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), playerEvent("76561198000000001")))

	msg := receive(t, client)
	assert.True(t, strings.HasPrefix(msg, "event: session.started\ndata: {"))
	assert.Contains(t, msg, `"steam_id_64":"76561198000000001"`)
}

func TestHubFiltersBySteamID(t *testing.T) {
	hub := newRunningHub(t)

	alice := NewClient("alice")
	everyone := NewClient("")
	hub.Register(alice)
	hub.Register(everyone)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), playerEvent("bob")))
	require.NoError(t, hub.Publish(context.Background(), playerEvent("alice")))

	assert.Contains(t, receive(t, everyone), `"bob"`)
	assert.Contains(t, receive(t, everyone), `"alice"`)
	assert.Contains(t, receive(t, alice), `"alice"`)
	assert.Empty(t, alice.send)
}

func TestHubUnregister(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient("")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()

	client := NewClient("")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	hub.Close()
	hub.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, time.Millisecond)
}
