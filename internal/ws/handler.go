package ws

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"roomchat-service/internal/auth"
	"roomchat-service/internal/observability"
	"roomchat-service/internal/repositories"
)

// RoomWebSocketHandler upgrades connections and attaches them to a room.
type RoomWebSocketHandler struct {
	hub       *Hub
	messages  repositories.MessageRepository
	users     repositories.UserRepository
	validator auth.TokenValidator
}

// NewRoomWebSocketHandler constructs a RoomWebSocketHandler.
func NewRoomWebSocketHandler(hub *Hub, messages repositories.MessageRepository, users repositories.UserRepository, validator auth.TokenValidator) *RoomWebSocketHandler {
	return &RoomWebSocketHandler{hub: hub, messages: messages, users: users, validator: validator}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, resolves the caller identity and opens a
// session bound to the room named in the path.
func (h *RoomWebSocketHandler) Handle(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room"})
		return
	}

	ctx, span := otel.Tracer("roomchat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	identity, err := h.resolveIdentity(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cannot resolve identity"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      identity.UserID,
		Username:    identity.Username,
		Anonymous:   identity.Anonymous,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}

	observability.IncWSActive("room")
	observability.IncWSEvent("room", "ws_connect")
	publishWSEvent(ctx, "ws_connect", room, info, "")

	onClose := func(reason string) {
		observability.DecWSActive("room")
		observability.IncWSEvent("room", "ws_disconnect")
		publishWSEvent(context.Background(), "ws_disconnect", room, info, reason)
	}

	session := NewSession(context.Background(), conn, h.hub, h.messages, room, identity, info, onClose)
	session.Open()
}

// resolveIdentity uses the connection's bearer token when present and valid.
// Otherwise it deliberately falls back to the first registered user as a
// sentinel identity: unauthenticated senders post as that user. This is a
// product policy, not a security measure.
func (h *RoomWebSocketHandler) resolveIdentity(c *gin.Context) (auth.Identity, error) {
	if token := bearerToken(c); token != "" {
		identity, err := h.validator.ValidateToken(token)
		if err == nil {
			return identity, nil
		}
		log.Printf("ws token rejected: %v", err)
	}

	fallback, err := h.users.First(c.Request.Context())
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: fallback.ID, Username: fallback.Username, Anonymous: true}, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return c.Query("token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func publishWSEvent(ctx context.Context, event, room string, info ConnInfo, reason string) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "room",
			"room":        room,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"username":  info.Username,
			"anonymous": info.Anonymous,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(ctx, "ws_events.rooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload:   payload,
	}, headers)
}
