package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Srijapotha/new-camme-project/internal/mocks"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/chat/messages", handler.Messages)
	r.POST("/chat/create-private", handler.CreatePrivate)
	r.POST("/chat/set-auto-delete-setting", handler.SetAutoDeleteSetting)
	r.POST("/chat/get-auto-delete-setting", handler.GetAutoDeleteSetting)
	r.POST("/chat/block-user", handler.BlockUser)
	r.POST("/chat/set-pin", handler.SetPin)
	r.POST("/chat/verify-pin", handler.VerifyPin)
	return r
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMessagesRequiresMembership(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(chats, messages, new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	chats.On("IsParticipant", mock.Anything, 9, 1).Return(false, nil).Once()

	rec := postJSON(router, "/chat/messages", `{"chatId":9}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messages.AssertNotCalled(t, "ListChatMessages", mock.Anything, mock.Anything)
}

func TestMessagesSuccess(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(chats, messages, new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	chats.On("IsParticipant", mock.Anything, 9, 1).Return(true, nil).Once()
	messages.On("ListChatMessages", mock.Anything, 9).Return([]models.Message{{ID: 4, ChatID: 9}}, nil).Once()
	chats.On("PinnedMessages", mock.Anything, 9).Return([]int{4}, nil).Once()

	rec := postJSON(router, "/chat/messages", `{"chatId":9}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
	chats.AssertExpectations(t)
	messages.AssertExpectations(t)
}

func TestCreatePrivateRejectsSelf(t *testing.T) {
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	rec := postJSON(router, "/chat/create-private", `{"friendId":1}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePrivateReturnsExisting(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chats, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	chats.On("CreateOrGetPrivateChat", mock.Anything, 1, 2).Return(models.Chat{ID: 33}, false, nil).Once()

	rec := postJSON(router, "/chat/create-private", `{"friendId":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(33), resp["chat_id"])
	assert.Equal(t, false, resp["created"])
	chats.AssertExpectations(t)
}

func TestSetAutoDeleteSettingValidation(t *testing.T) {
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	rec := postJSON(router, "/chat/set-auto-delete-setting", `{"setting":"2h"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetAutoDeleteSettingUserPreference(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), users)
	router := setupChatRouter(handler)

	users.On("SetAutoDeleteChat", mock.Anything, 1, models.AutoDelete24h).Return(nil).Once()

	rec := postJSON(router, "/chat/set-auto-delete-setting", `{"setting":"24h"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestGetAutoDeleteSettingForChat(t *testing.T) {
	chats := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chats, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	chats.On("IsParticipant", mock.Anything, 5, 1).Return(true, nil).Once()
	chats.On("GetChat", mock.Anything, 5).Return(models.Chat{ID: 5, AutoDeletePolicy: models.AutoDelete1w}, nil).Once()

	rec := postJSON(router, "/chat/get-auto-delete-setting", `{"chatId":5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "1w", resp["setting"])
}

func TestBlockUserDefaultsToBlocked(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), users)
	router := setupChatRouter(handler)

	users.On("SetBlocked", mock.Anything, 1, 7, true).Return(nil).Once()

	rec := postJSON(router, "/chat/block-user", `{"targetId":7}`)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestSetPinRejectsBadFormat(t *testing.T) {
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock))
	router := setupChatRouter(handler)

	for _, pin := range []string{"123", "12345", "abcd", "12a4"} {
		rec := postJSON(router, "/chat/set-pin", `{"chatId":5,"pin":"`+pin+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "pin %q", pin)
	}
}

func TestVerifyPinAgainstStoredHash(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), users)
	router := setupChatRouter(handler)

	hash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetChatPin", mock.Anything, 1, 5).Return(string(hash), nil).Twice()

	rec := postJSON(router, "/chat/verify-pin", `{"chatId":5,"pin":"4321"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["valid"])

	rec = postJSON(router, "/chat/verify-pin", `{"chatId":5,"pin":"0000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = map[string]any{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, false, resp["valid"])
}

func TestVerifyPinWithoutStoredPin(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), users)
	router := setupChatRouter(handler)

	users.On("GetChatPin", mock.Anything, 1, 5).Return("", repositories.ErrNoPinSet).Once()

	rec := postJSON(router, "/chat/verify-pin", `{"chatId":5,"pin":"1234"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
