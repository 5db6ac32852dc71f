package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Srijapotha/new-camme-project/internal/ledger"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateOrGetPrivateChat(ctx context.Context, userID, friendID int) (models.Chat, bool, error) {
	args := m.Called(ctx, userID, friendID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Bool(1), args.Error(2)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) Participants(ctx context.Context, chatID int) ([]int, error) {
	args := m.Called(ctx, chatID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *ChatRepositoryMock) IsParticipant(ctx context.Context, chatID, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListPrivateChats(ctx context.Context, userID int) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	var chats []models.Chat
	if val := args.Get(0); val != nil {
		chats = val.([]models.Chat)
	}
	return chats, args.Error(1)
}

func (m *ChatRepositoryMock) CreateGroup(ctx context.Context, adminID int, name, theme string, memberIDs []int) (models.Chat, error) {
	args := m.Called(ctx, adminID, name, theme, memberIDs)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) ListGroupsForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	var chats []models.Chat
	if val := args.Get(0); val != nil {
		chats = val.([]models.Chat)
	}
	return chats, args.Error(1)
}

func (m *ChatRepositoryMock) AddMember(ctx context.Context, chatID, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) RemoveMember(ctx context.Context, chatID, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) SetAutoDeletePolicy(ctx context.Context, chatID int, policy string) error {
	args := m.Called(ctx, chatID, policy)
	return args.Error(0)
}

func (m *ChatRepositoryMock) TouchLastActivity(ctx context.Context, chatID int) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) PinMessage(ctx context.Context, chatID, messageID int) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) UnpinMessage(ctx context.Context, chatID, messageID int) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) PinnedMessages(ctx context.Context, chatID int) ([]int, error) {
	args := m.Called(ctx, chatID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, params repositories.CreateMessageParams) (models.Message, error) {
	args := m.Called(ctx, params)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListChatMessages(ctx context.Context, chatID int) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) FilterMessagesByDate(ctx context.Context, chatID int, from, to time.Time) ([]models.Message, error) {
	args := m.Called(ctx, chatID, from, to)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) SetPinned(ctx context.Context, messageID int, pinned bool) error {
	args := m.Called(ctx, messageID, pinned)
	return args.Error(0)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageID, userID int, at time.Time) error {
	args := m.Called(ctx, messageID, userID, at)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) DeleteSentBefore(ctx context.Context, senderID int, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, senderID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkUsers(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SearchUsers(ctx context.Context, userID int, term string) ([]models.User, error) {
	args := m.Called(ctx, userID, term)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetOnline(ctx context.Context, userID int, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

func (m *UserRepositoryMock) TouchLastSeen(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) IsBlockedByAny(ctx context.Context, senderID int, userIDs []int) (bool, error) {
	args := m.Called(ctx, senderID, userIDs)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) HasRestrictedAny(ctx context.Context, senderID int, userIDs []int) (bool, error) {
	args := m.Called(ctx, senderID, userIDs)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) SetBlocked(ctx context.Context, userID, targetID int, blocked bool) error {
	args := m.Called(ctx, userID, targetID, blocked)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetRestricted(ctx context.Context, userID, targetID int, restricted bool) error {
	args := m.Called(ctx, userID, targetID, restricted)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetAutoDeleteChat(ctx context.Context, userID int, policy string) error {
	args := m.Called(ctx, userID, policy)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListAutoDeleteUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetChatPin(ctx context.Context, userID, chatID int, pinHash string) error {
	args := m.Called(ctx, userID, chatID, pinHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetChatPin(ctx context.Context, userID, chatID int) (string, error) {
	args := m.Called(ctx, userID, chatID)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) SaveMessage(ctx context.Context, userID, messageID int, at time.Time) error {
	args := m.Called(ctx, userID, messageID, at)
	return args.Error(0)
}

type AdRepositoryMock struct {
	mock.Mock
}

func (m *AdRepositoryMock) GetAd(ctx context.Context, adID int) (models.Advertisement, error) {
	args := m.Called(ctx, adID)
	var ad models.Advertisement
	if val := args.Get(0); val != nil {
		ad = val.(models.Advertisement)
	}
	return ad, args.Error(1)
}

func (m *AdRepositoryMock) IncrementAnalytics(ctx context.Context, adID int, counts ledger.EventCounts) error {
	args := m.Called(ctx, adID, counts)
	return args.Error(0)
}

func (m *AdRepositoryMock) ApplyBilling(ctx context.Context, adID, version int, wallet, totalSpent, overage float64, isActive bool) error {
	args := m.Called(ctx, adID, version, wallet, totalSpent, overage, isActive)
	return args.Error(0)
}

func (m *AdRepositoryMock) InsertEvents(ctx context.Context, adID int, eventType string, n int64, userID *int, reaction *string) error {
	args := m.Called(ctx, adID, eventType, n, userID, reaction)
	return args.Error(0)
}

func (m *AdRepositoryMock) ListEngagementEvents(ctx context.Context, adID int) ([]models.AdEvent, error) {
	args := m.Called(ctx, adID)
	var events []models.AdEvent
	if val := args.Get(0); val != nil {
		events = val.([]models.AdEvent)
	}
	return events, args.Error(1)
}

func (m *AdRepositoryMock) InsertFormSubmission(ctx context.Context, adID int, userID *int, formData []byte) error {
	args := m.Called(ctx, adID, userID, formData)
	return args.Error(0)
}
