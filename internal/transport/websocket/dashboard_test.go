package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carepoint/internal/domain"
)

type stubTokens map[string]domain.UserRole

func (s stubTokens) ParseToken(_ context.Context, token string) (int64, domain.UserRole, error) {
	role, ok := s[token]
	if !ok {
		return 0, "", errors.New("invalid token")
	}
	return 1, role, nil
}

func setupHub(t *testing.T) (*DashboardHub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewDashboardHub(stubTokens{"admin": domain.UserRoleAdmin, "patient": domain.UserRolePatient}, []string{"*"}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws/dashboard", hub.HandleWebSocket)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/dashboard?token=" + token
}

func TestDashboardHub_RejectsNonAdmins(t *testing.T) {
	_, server := setupHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(server, "bogus"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(server, "patient"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDashboardHub_BroadcastsEvents(t *testing.T) {
	hub, server := setupHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "admin"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectedClients() == 1 }, time.Second, 10*time.Millisecond)

	event := domain.Event{ID: "evt-1", Type: domain.EventQuerySubmitted, OccurredAt: time.Now().UTC(), Payload: map[string]any{"id": 7}}
	require.NoError(t, hub.Publish(context.Background(), event))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, domain.EventQuerySubmitted, got.Type)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))
}
