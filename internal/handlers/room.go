package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomchat-service/internal/repositories"
)

// RoomHandler serves room message history over REST.
type RoomHandler struct {
	messageRepo repositories.MessageRepository
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(messageRepo repositories.MessageRepository) *RoomHandler {
	return &RoomHandler{messageRepo: messageRepo}
}

// GetRoomMessages returns the full history of a room, oldest first.
// Tombstones are included so clients can render deletions in place.
func (h *RoomHandler) GetRoomMessages(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room"})
		return
	}

	msgs, err := h.messageRepo.ListRoomMessages(c.Request.Context(), room)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "messages": msgs})
}
