package sync

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesTCPClient(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	defer client.Close()
	hub.Add(server)

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(client)
		if sc.Scan() {
			lines <- sc.Text()
		}
	}()

	hub.Broadcast(CartEvent{
		Type:      EventCartAdd,
		SessionID: "s1",
		ProductID: 1,
		Name:      "Lumix S5 II",
		Items:     1,
		At:        time.Now().UTC(),
	})

	select {
	case line := <-lines:
		var ev CartEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		assert.Equal(t, EventCartAdd, ev.Type)
		assert.Equal(t, "Lumix S5 II", ev.Name)
		assert.Equal(t, 1, ev.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestDeadClientIsDropped(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	hub.Add(server)
	_ = client.Close()

	// write fails against the closed pipe; the hub drops the conn
	hub.Broadcast(CartEvent{Type: EventCartRemove, SessionID: "s1", Items: 0, At: time.Now().UTC()})
	assert.Equal(t, 0, hub.Stats().TCPClients)
}

func TestStats(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, Stats{}, hub.Stats())

	server, client := net.Pipe()
	defer client.Close()
	hub.Add(server)
	assert.Equal(t, 1, hub.Stats().TCPClients)

	hub.Remove(server)
	assert.Equal(t, 0, hub.Stats().TCPClients)
}
