package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roomchat-service/internal/auth"
	"roomchat-service/internal/mocks"
	"roomchat-service/internal/models"
)

func newWSServer(t *testing.T, hub *Hub, store *memStore, users *mocks.UserRepositoryMock) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewRoomWebSocketHandler(hub, store, users, auth.NewJWTValidator("test-secret"))
	router := gin.New()
	router.GET("/ws/rooms/:room", handler.Handle)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestHandshakeFallsBackToSentinelIdentity(t *testing.T) {
	hub := NewHub()
	store := newMemStore(map[int]string{1: "alice"})
	users := new(mocks.UserRepositoryMock)
	users.On("First", mock.Anything).Return(models.User{ID: 1, Username: "alice"}, nil).Once()

	srv := newWSServer(t, hub, store, users)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/rooms/r1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Members("r1") == 1 }, time.Second, 10*time.Millisecond)

	// An unauthenticated sender posts as the sentinel user.
	require.NoError(t, conn.WriteJSON(map[string]string{"message": "hi"}))
	var frame models.ServerFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, models.StatusSaved, frame.Status)
	require.Equal(t, "alice", frame.Username)

	users.AssertExpectations(t)
}

func TestHandshakeUsesTokenIdentity(t *testing.T) {
	hub := NewHub()
	store := newMemStore(map[int]string{2: "bob"})
	users := new(mocks.UserRepositoryMock)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  2,
		"username": "bob",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	srv := newWSServer(t, hub, store, users)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/rooms/r1?token="+signed), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "hello"}))
	var frame models.ServerFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, models.StatusSaved, frame.Status)
	require.Equal(t, "bob", frame.Username)

	// No fallback lookup for authenticated connections.
	users.AssertNotCalled(t, "First", mock.Anything)
}

func TestHandshakeDisconnectLeavesRoom(t *testing.T) {
	hub := NewHub()
	store := newMemStore(nil)
	users := new(mocks.UserRepositoryMock)
	users.On("First", mock.Anything).Return(models.User{ID: 1, Username: "alice"}, nil).Once()

	srv := newWSServer(t, hub, store, users)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/rooms/r9"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Members("r9") == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.Members("r9") == 0 }, time.Second, 10*time.Millisecond)
}
