package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomchat-service/internal/repositories"
	"roomchat-service/internal/telemetry"
)

// FriendshipHandler manages friendship records.
type FriendshipHandler struct {
	friendRepo repositories.FriendshipRepository
	userRepo   repositories.UserRepository
	audit      *telemetry.AuditEmitter
}

// NewFriendshipHandler builds a FriendshipHandler.
func NewFriendshipHandler(friendRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, audit *telemetry.AuditEmitter) *FriendshipHandler {
	return &FriendshipHandler{friendRepo: friendRepo, userRepo: userRepo, audit: audit}
}

// AddFriend records a friendship between the caller and another user.
func (h *FriendshipHandler) AddFriend(c *gin.Context) {
	var req struct {
		FriendID int `json:"friend_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.FriendID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot befriend yourself"})
		return
	}

	if _, err := h.userRepo.GetByID(c.Request.Context(), req.FriendID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "friend not found"})
		return
	}

	friendship, err := h.friendRepo.AddFriend(c.Request.Context(), userID, req.FriendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add friend"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO",
		fmt.Sprintf("friendship created between %d and %d", friendship.UserID, friendship.FriendID),
		"", requestIDFromContext(c), userIDFromContext(c))

	c.JSON(http.StatusCreated, friendship)
}

// ListFriends returns the caller's friends.
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	userID := c.GetInt("userID")

	friends, err := h.friendRepo.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}
