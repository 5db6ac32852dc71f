package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Srijapotha/new-camme-project/internal/mocks"
	"github.com/Srijapotha/new-camme-project/internal/models"
)

func TestSweepRunsBothPasses(t *testing.T) {
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}

	now := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	sweeper := New(messages, users, time.Hour)
	sweeper.now = func() time.Time { return now }

	messages.On("DeleteExpired", mock.Anything, now).Return(int64(4), nil)
	users.On("ListAutoDeleteUsers", mock.Anything).Return([]models.User{
		{ID: 1, AutoDeleteChat: models.AutoDelete24h},
		{ID: 2, AutoDeleteChat: models.AutoDeleteNever},
	}, nil)
	messages.On("DeleteSentBefore", mock.Anything, 1, now.Add(-24*time.Hour)).Return(int64(2), nil)

	sweeper.Sweep(context.Background())

	messages.AssertExpectations(t)
	// never-policy users are skipped entirely
	messages.AssertNotCalled(t, "DeleteSentBefore", mock.Anything, 2, mock.Anything)
}

func TestSweepContinuesAfterExpiryPassFailure(t *testing.T) {
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}

	sweeper := New(messages, users, time.Hour)

	messages.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	users.On("ListAutoDeleteUsers", mock.Anything).Return([]models.User{}, nil)

	sweeper.Sweep(context.Background())

	users.AssertExpectations(t)
}

func TestSweepSkipsWhileRunning(t *testing.T) {
	messages := &mocks.MessageRepositoryMock{}
	users := &mocks.UserRepositoryMock{}

	sweeper := New(messages, users, time.Hour)
	sweeper.running.Store(true)

	sweeper.Sweep(context.Background())

	messages.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
}
