package mock

import (
	"context"
	"time"

	"github.com/devcard/devcard"
	"github.com/devcard/devcard/retention"
)

// RetentionStore runs Purge callbacks against itself without any rollback, so every
// call is observable in Calls.
type RetentionStore struct {
	CreatedBetweenFn func(ctx context.Context, from time.Time, to time.Time) ([]devcard.UserId, error)

	DeleteSkillLinksFn func(ctx context.Context, userIds []devcard.UserId) (int64, error)

	DeleteProfilesFn func(ctx context.Context, userIds []devcard.UserId) (int64, error)

	// Names of the methods invoked, in order.
	Calls []string
}

func (s *RetentionStore) CreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]devcard.UserId, error) {
	s.Calls = append(s.Calls, "CreatedBetween")
	return s.CreatedBetweenFn(ctx, from, to)
}

func (s *RetentionStore) Purge(ctx context.Context, fn func(ctx context.Context, tx retention.PurgeTx) error) error {
	s.Calls = append(s.Calls, "Purge")
	return fn(ctx, s)
}

func (s *RetentionStore) DeleteSkillLinks(ctx context.Context, userIds []devcard.UserId) (int64, error) {
	s.Calls = append(s.Calls, "DeleteSkillLinks")
	return s.DeleteSkillLinksFn(ctx, userIds)
}

func (s *RetentionStore) DeleteProfiles(ctx context.Context, userIds []devcard.UserId) (int64, error) {
	s.Calls = append(s.Calls, "DeleteProfiles")
	return s.DeleteProfilesFn(ctx, userIds)
}
