// Package sweeper enforces message retention. Pass one removes messages
// whose chat-level expiry has passed; pass two applies each user's own
// retention preference to the messages they sent.
package sweeper

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/observability"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

// Sweeper periodically deletes expired messages.
type Sweeper struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
	interval time.Duration

	running atomic.Bool
	now     func() time.Time
}

// New constructs a Sweeper.
func New(messages repositories.MessageRepository, users repositories.UserRepository, interval time.Duration) *Sweeper {
	return &Sweeper{
		messages: messages,
		users:    users,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("retention sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retention sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs both passes once. A sweep that is still in progress when the
// next tick fires is not run twice.
func (s *Sweeper) Sweep(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		log.Warn().Msg("sweep still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	now := s.now().UTC()

	deleted, err := s.messages.DeleteExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("expiry pass failed")
	} else {
		observability.AddSweeperDeletions("chat_policy", deleted)
		if deleted > 0 {
			log.Info().Int64("deleted", deleted).Msg("expired messages removed")
		}
	}

	users, err := s.users.ListAutoDeleteUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("user retention pass failed")
		return
	}
	for _, user := range users {
		window, ok := models.AutoDeleteWindow(user.AutoDeleteChat)
		if !ok {
			continue
		}
		deleted, err := s.messages.DeleteSentBefore(ctx, user.ID, now.Add(-window))
		if err != nil {
			log.Error().Err(err).Int("user_id", user.ID).Msg("user retention delete failed")
			continue
		}
		observability.AddSweeperDeletions("user_preference", deleted)
		if deleted > 0 {
			log.Info().Int("user_id", user.ID).Int64("deleted", deleted).Msg("user retention applied")
		}
	}
}
