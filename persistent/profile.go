package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devcard/devcard"
	"github.com/uptrace/bun"
)

type ProfileStore struct {
	DB *bun.DB
	// Now stamps created_at on registration. Defaults to time.Now.
	Now func() time.Time
}

var _ devcard.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ProfileStore) ByUserId(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
	profile := new(Profile)
	err := s.DB.NewSelect().
		Model(profile).
		Where("user_id = ?", string(userId)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return devcard.Profile{}, devcard.ErrProfileNotFound
		}
		return devcard.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return profile.ToDomain(), nil
}

func (s *ProfileStore) SkillIdsByUserId(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
	var ids []int64
	err := s.DB.NewSelect().
		Model((*UserSkill)(nil)).
		Column("skill_id").
		Where("user_id = ?", string(userId)).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("select user skills: %w", err)
	}

	skillIds := make([]devcard.SkillId, len(ids))
	for i, id := range ids {
		skillIds[i] = devcard.SkillId(id)
	}
	return skillIds, nil
}

// Register inserts the profile and its skill link in one transaction.
func (s *ProfileStore) Register(ctx context.Context, p devcard.Profile, skillId devcard.SkillId) error {
	profile := profileFromDomain(p)
	profile.CreatedAt = s.now()

	return s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*Profile)(nil)).
			Where("user_id = ?", profile.UserId).
			Exists(ctx)
		if err != nil {
			return &devcard.WriteError{Op: "insert profile", Err: fmt.Errorf("check user id: %w", err)}
		}
		if taken {
			return &devcard.WriteError{Op: "insert profile", Err: devcard.ErrUserIdTaken}
		}

		_, err = tx.NewInsert().
			Model(profile).
			Exec(ctx)
		if err != nil {
			return &devcard.WriteError{Op: "insert profile", Err: err}
		}

		_, err = tx.NewInsert().
			Model(&UserSkill{UserId: profile.UserId, SkillId: int64(skillId)}).
			Exec(ctx)
		if err != nil {
			return &devcard.WriteError{Op: "insert user skill", Err: err}
		}
		return nil
	})
}
