package notify

import (
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegisterMessage(t *testing.T) {
	msg, err := parseRegisterMessage([]byte(`{"type":"register","session_id":"s1"}`))
	require.NoError(t, err)
	assert.Equal(t, RegisterMessageType, msg.Type)
	assert.Equal(t, "s1", msg.SessionID)
}

func TestParseRegisterMessageRejectsBadInput(t *testing.T) {
	cases := []string{
		`not json`,
		`{"type":"register"}`,
		`{"session_id":"s1"}`,
		`{}`,
	}
	for _, raw := range cases {
		_, err := parseRegisterMessage([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242}

	r.Register("s1", addr)
	c, ok := r.Lookup("s1")
	require.True(t, ok)
	assert.Equal(t, "s1", c.SessionID)
	assert.Equal(t, addr, c.Addr)

	// blank ids and nil addresses are ignored
	r.Register("", addr)
	r.Register("s2", nil)
	_, ok = r.Lookup("s2")
	assert.False(t, ok)
	assert.Len(t, r.Snapshot(), 1)

	r.Remove("s1")
	_, ok = r.Lookup("s1")
	assert.False(t, ok)
}

func TestNoticesBeforeSocketBoundAreDropped(t *testing.T) {
	r := NewRegistry()
	r.Register("s1", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242})
	s := NewServer("127.0.0.1:0", r, nil)

	// no socket yet; both paths are silent no-ops
	s.Notify("s1", LevelInfo, "hello")
	s.Broadcast(LevelWarning, "hello all")
	assert.Len(t, r.Snapshot(), 1)
}

func TestNoticesDuringSocketStartup(t *testing.T) {
	r := NewRegistry()
	r.Register("s1", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4242})
	s := NewServer("127.0.0.1:0", r, nil)

	// handlers fire notices while the listener is still coming up
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Notify("s1", LevelInfo, "added to cart")
				s.Broadcast(LevelWarning, "already in cart")
			}
		}()
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()
	s.setConn(conn)

	wg.Wait()
	_, ok := r.Lookup("s1")
	assert.True(t, ok)
}
