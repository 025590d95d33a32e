package mock

import (
	"context"

	"github.com/devcard/devcard"
)

type SkillStore struct {
	AllFn func(ctx context.Context) ([]devcard.Skill, error)

	NamesByIdsFn func(ctx context.Context, ids []devcard.SkillId) ([]string, error)
}

func (s SkillStore) All(ctx context.Context) ([]devcard.Skill, error) {
	return s.AllFn(ctx)
}

func (s SkillStore) NamesByIds(ctx context.Context, ids []devcard.SkillId) ([]string, error) {
	return s.NamesByIdsFn(ctx, ids)
}
