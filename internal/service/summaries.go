package service

import (
	"context"
	"time"

	"taskhub/internal/core/cache"
	"taskhub/internal/domain"
)

// UserSummaries resolves the display slice of a user (id, email, name) for
// read-model assembly, read-through cached in redis. Only display data goes
// through here; authorization always reads membership fresh from the store.
type UserSummaries struct {
	users domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewUserSummaries(users domain.UserRepository, c *cache.Cache, ttl time.Duration) UserSummaries {
	return UserSummaries{users: users, cache: c, ttl: ttl}
}

func summaryKey(userID string) string { return "user:summary:" + userID }

// Get returns (nil, nil) for missing or inactive users.
func (s UserSummaries) Get(ctx context.Context, userID string) (*domain.UserSummary, error) {
	if s.cache == nil {
		return s.load(ctx, userID)
	}
	return cache.GetOrLoadJSON[domain.UserSummary](s.cache, ctx, summaryKey(userID), s.ttl,
		func(ctx context.Context) (*domain.UserSummary, error) {
			return s.load(ctx, userID)
		})
}

func (s UserSummaries) load(ctx context.Context, userID string) (*domain.UserSummary, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	sum := u.Summary()
	return &sum, nil
}

func (s UserSummaries) Invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, summaryKey(userID))
	}
}
