package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Srijapotha/new-camme-project/internal/mocks"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/presence"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

type recordingBroadcaster struct {
	events []string
}

func (r *recordingBroadcaster) Broadcast(chatID int, event string, data any) {
	r.events = append(r.events, event)
}

type fakePresence struct {
	online map[int]bool
}

func (f *fakePresence) Lookup(userID int) (presence.Conn, bool) {
	if f.online[userID] {
		return nil, true
	}
	return nil, false
}

func newTestRouter(
	chats *mocks.ChatRepositoryMock,
	messages *mocks.MessageRepositoryMock,
	users *mocks.UserRepositoryMock,
	notifier *mocks.NotifierMock,
	online map[int]bool,
) (*Router, *recordingBroadcaster) {
	rooms := &recordingBroadcaster{}
	router := NewRouter(chats, messages, users, rooms, &fakePresence{online: online}, notifier)
	router.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return router, rooms
}

func TestDeliverRejectsBlockedSender(t *testing.T) {
	chats := &mocks.ChatRepositoryMock{}
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}
	notifier := &mocks.NotifierMock{}

	chats.On("GetChat", mock.Anything, 10).Return(models.Chat{ID: 10, AutoDeletePolicy: models.AutoDeleteNever}, nil)
	chats.On("Participants", mock.Anything, 10).Return([]int{1, 2}, nil)
	users.On("IsBlockedByAny", mock.Anything, 1, []int{2}).Return(true, nil)

	router, rooms := newTestRouter(chats, messages, users, notifier, nil)

	_, err := router.Deliver(context.Background(), models.SendMessagePayload{
		ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText,
	})

	assert.ErrorIs(t, err, ErrBlocked)
	assert.Empty(t, rooms.events)
	messages.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "PushMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliverRejectsNonParticipant(t *testing.T) {
	chats := &mocks.ChatRepositoryMock{}
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}
	notifier := &mocks.NotifierMock{}

	chats.On("GetChat", mock.Anything, 10).Return(models.Chat{ID: 10}, nil)
	chats.On("Participants", mock.Anything, 10).Return([]int{2, 3}, nil)

	router, _ := newTestRouter(chats, messages, users, notifier, nil)

	_, err := router.Deliver(context.Background(), models.SendMessagePayload{
		ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText,
	})

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestDeliverBroadcastsAndStampsExpiry(t *testing.T) {
	chats := &mocks.ChatRepositoryMock{}
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}
	notifier := &mocks.NotifierMock{}

	sentAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := sentAt.Add(24 * time.Hour)

	chats.On("GetChat", mock.Anything, 10).Return(models.Chat{ID: 10, AutoDeletePolicy: models.AutoDelete24h}, nil)
	chats.On("Participants", mock.Anything, 10).Return([]int{1, 2}, nil)
	chats.On("TouchLastActivity", mock.Anything, 10).Return(nil)
	users.On("IsBlockedByAny", mock.Anything, 1, []int{2}).Return(false, nil)
	users.On("HasRestrictedAny", mock.Anything, 1, []int{2}).Return(false, nil)
	users.On("GetUser", mock.Anything, 1).Return(models.User{ID: 1, Username: "maya"}, nil)
	messages.On("CreateMessage", mock.Anything, repositories.CreateMessageParams{
		ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText,
		SentAt: sentAt, AutoDeleteAt: &expiry,
	}).Return(models.Message{ID: 77, ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText}, nil)

	// recipient 2 is online, no push expected
	router, rooms := newTestRouter(chats, messages, users, notifier, map[int]bool{2: true})

	msg, err := router.Deliver(context.Background(), models.SendMessagePayload{
		ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText,
	})

	require.NoError(t, err)
	assert.Equal(t, 77, msg.ID)
	assert.Equal(t, []string{models.EventNewMessage}, rooms.events)
	notifier.AssertNotCalled(t, "PushMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	messages.AssertExpectations(t)
}

func TestDeliverRestrictedSenderSkipsBroadcastButPersistsAndPushes(t *testing.T) {
	chats := &mocks.ChatRepositoryMock{}
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}
	notifier := &mocks.NotifierMock{}

	chats.On("GetChat", mock.Anything, 10).Return(models.Chat{ID: 10, AutoDeletePolicy: models.AutoDeleteNever}, nil)
	chats.On("Participants", mock.Anything, 10).Return([]int{1, 2}, nil)
	chats.On("TouchLastActivity", mock.Anything, 10).Return(nil)
	users.On("IsBlockedByAny", mock.Anything, 1, []int{2}).Return(false, nil)
	users.On("HasRestrictedAny", mock.Anything, 1, []int{2}).Return(true, nil)
	users.On("GetUser", mock.Anything, 1).Return(models.User{ID: 1, Username: "maya"}, nil)
	messages.On("CreateMessage", mock.Anything, mock.Anything).
		Return(models.Message{ID: 78, ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText}, nil)
	notifier.On("PushMessage", mock.Anything, 2, "maya", "hi", mock.Anything).Return(nil)

	router, rooms := newTestRouter(chats, messages, users, notifier, nil)

	_, err := router.Deliver(context.Background(), models.SendMessagePayload{
		ChatID: 10, SenderID: 1, Content: "hi", MessageType: models.MessageTypeText,
	})

	require.NoError(t, err)
	assert.Empty(t, rooms.events)
	notifier.AssertExpectations(t)
}

func TestDeliverValidation(t *testing.T) {
	router, _ := newTestRouter(&mocks.ChatRepositoryMock{}, &mocks.MessageRepositoryMock{}, &mocks.UserRepositoryMock{}, &mocks.NotifierMock{}, nil)

	_, err := router.Deliver(context.Background(), models.SendMessagePayload{
		ChatID: 1, SenderID: 1, Content: "hi", MessageType: "sticker",
	})
	assert.ErrorIs(t, err, ErrInvalidMessageType)

	_, err = router.Deliver(context.Background(), models.SendMessagePayload{
		ChatID: 1, SenderID: 1, MessageType: models.MessageTypeText,
	})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
