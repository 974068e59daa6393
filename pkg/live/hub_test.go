package live

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the connection
	require.Eventually(t, hub.HasClients, time.Second, 10*time.Millisecond)
	return hub, conn
}

func TestSaleEventReachesClient(t *testing.T) {
	hub, conn := dialTestHub(t)

	hub.SaleEvent("bar-cocody", 3)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &event))
	require.Equal(t, "sales_ingested", event["type"])
	require.Equal(t, "bar-cocody", event["tenant"])
	require.Equal(t, float64(3), event["count"])
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	require.False(t, hub.HasClients())
	// SaleEvent without listeners is a no-op, not a block or panic
	hub.SaleEvent("t1", 1)
	require.NoError(t, hub.Broadcast(map[string]string{"type": "noop"}))
}
