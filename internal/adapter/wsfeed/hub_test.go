package wsfeed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"citysim/internal/domain/city"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHubSendsWelcomeThenBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(8)
	hub.Welcome = func() city.Snapshot { return city.Snapshot{CityID: "feed-city", Tick: 7} }
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)

	welcome := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, welcome.Type)
	require.Equal(t, "feed-city", welcome.Payload.(map[string]any)["city_id"])

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Refresh(city.TileView{X: 3, Y: 4})
	tile := readMessage(t, conn)
	require.Equal(t, MessageTile, tile.Type)
	payload := tile.Payload.(map[string]any)
	require.Equal(t, float64(3), payload["x"])
	require.Equal(t, float64(4), payload["y"])
}

func TestHubUnregistersClosedClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(8)
	go hub.Run(ctx)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubNeverBlocksWithoutRunLoop(t *testing.T) {
	hub := NewHub(2)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Refresh(city.TileView{X: i})
		}
		hub.Publish(city.Snapshot{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("refresh blocked")
	}
	require.Equal(t, uint64(4), hub.Dropped())
}
