package devcard

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserIdTaken     = errors.New("user id already taken")
)

type UserId string

type SkillId int64

// Registered digital business card, one per user id.
type Profile struct {
	UserId      UserId
	Name        string
	Description string
	GithubId    *string
	QiitaId     *string
	XId         *string
	CreatedAt   time.Time
}

type Skill struct {
	Id   SkillId
	Name string
}

type ProfileStore interface {
	// Returns ErrProfileNotFound when no profile has the given id.
	ByUserId(ctx context.Context, userId UserId) (Profile, error)

	// Skill ids linked to the profile in store order. Duplicates are passed through.
	SkillIdsByUserId(ctx context.Context, userId UserId) ([]SkillId, error)

	// Insert the profile and then its single skill link.
	Register(ctx context.Context, profile Profile, skillId SkillId) error
}

type SkillStore interface {
	// All skills ordered by id.
	All(ctx context.Context) ([]Skill, error)

	NamesByIds(ctx context.Context, ids []SkillId) ([]string, error)
}
