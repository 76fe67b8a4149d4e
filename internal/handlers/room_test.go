package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roomchat-service/internal/mocks"
	"roomchat-service/internal/models"
)

func setupRoomRouter(handler *RoomHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/rooms/:room/messages", handler.GetRoomMessages)
	return r
}

func TestGetRoomMessagesSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewRoomHandler(messageRepo)
	router := setupRoomRouter(handler)

	messageRepo.On("ListRoomMessages", mock.Anything, "r1").Return([]models.RoomMessage{
		{Message: models.Message{ID: 1, Room: "r1", Content: "hi"}, Username: "alice"},
		{Message: models.Message{ID: 2, Room: "r1", Content: models.Tombstone, Deleted: true}, Username: "bob"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Room     string               `json:"room"`
		Messages []models.RoomMessage `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "r1", resp.Room)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, models.Tombstone, resp.Messages[1].Content)

	messageRepo.AssertExpectations(t)
}

func TestGetRoomMessagesRepoError(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewRoomHandler(messageRepo)
	router := setupRoomRouter(handler)

	messageRepo.On("ListRoomMessages", mock.Anything, "r1").Return(([]models.RoomMessage)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	messageRepo.AssertExpectations(t)
}
