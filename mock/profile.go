package mock

import (
	"context"

	"github.com/devcard/devcard"
)

type ProfileStore struct {
	ByUserIdFn func(ctx context.Context, userId devcard.UserId) (devcard.Profile, error)

	SkillIdsByUserIdFn func(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error)

	RegisterFn func(ctx context.Context, profile devcard.Profile, skillId devcard.SkillId) error
}

func (s ProfileStore) ByUserId(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
	return s.ByUserIdFn(ctx, userId)
}

func (s ProfileStore) SkillIdsByUserId(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
	return s.SkillIdsByUserIdFn(ctx, userId)
}

func (s ProfileStore) Register(ctx context.Context, profile devcard.Profile, skillId devcard.SkillId) error {
	return s.RegisterFn(ctx, profile, skillId)
}
