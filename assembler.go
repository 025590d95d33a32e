package devcard

import (
	"context"
	"errors"
	"fmt"
)

// Assembler builds profile views from the users, user_skill and skills tables.
type Assembler struct {
	Profiles ProfileStore
	Skills   SkillStore
}

// View returns an error matching ErrProfileNotFound for unknown ids and a *FetchError
// when any store read fails.
func (a *Assembler) View(ctx context.Context, userId UserId) (ProfileView, error) {
	profile, err := a.Profiles.ByUserId(ctx, userId)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return ProfileView{}, fmt.Errorf("profile %q: %w", userId, ErrProfileNotFound)
		}
		return ProfileView{}, &FetchError{Op: "profile", Err: err}
	}

	skillIds, err := a.Profiles.SkillIdsByUserId(ctx, userId)
	if err != nil {
		return ProfileView{}, &FetchError{Op: "user skills", Err: err}
	}

	names, err := a.skillNames(ctx, uniqueSkillIds(skillIds))
	if err != nil {
		return ProfileView{}, &FetchError{Op: "skill names", Err: err}
	}
	return NewProfileView(profile, names), nil
}

func (a *Assembler) skillNames(ctx context.Context, ids []SkillId) ([]string, error) {
	// an empty IN filter is store dependent, never send it
	if len(ids) == 0 {
		return []string{}, nil
	}
	return a.Skills.NamesByIds(ctx, ids)
}

func uniqueSkillIds(ids []SkillId) []SkillId {
	seen := make(map[SkillId]struct{}, len(ids))
	unique := make([]SkillId, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
