package persistent

import (
	"time"

	"github.com/devcard/devcard"
	"github.com/uptrace/bun"
)

type Profile struct {
	bun.BaseModel `bun:"table:users"`

	UserId      string    `bun:"user_id,pk"`
	Name        string    `bun:"name,notnull,type:text"`
	Description string    `bun:"description,notnull,type:text"`
	GithubId    *string   `bun:"github_id,type:text"`
	QiitaId     *string   `bun:"qiita_id,type:text"`
	XId         *string   `bun:"x_id,type:text"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (p Profile) ToDomain() devcard.Profile {
	return devcard.Profile{
		UserId:      devcard.UserId(p.UserId),
		Name:        p.Name,
		Description: p.Description,
		GithubId:    p.GithubId,
		QiitaId:     p.QiitaId,
		XId:         p.XId,
		CreatedAt:   p.CreatedAt,
	}
}

func profileFromDomain(p devcard.Profile) *Profile {
	return &Profile{
		UserId:      string(p.UserId),
		Name:        p.Name,
		Description: p.Description,
		GithubId:    p.GithubId,
		QiitaId:     p.QiitaId,
		XId:         p.XId,
		CreatedAt:   p.CreatedAt,
	}
}

// Reference data, ids are assigned by whoever seeds the table.
type Skill struct {
	bun.BaseModel `bun:"table:skills"`

	Id   int64  `bun:"id,pk"`
	Name string `bun:"name,notnull,type:text"`
}

func (s Skill) ToDomain() devcard.Skill {
	return devcard.Skill{Id: devcard.SkillId(s.Id), Name: s.Name}
}

type UserSkill struct {
	bun.BaseModel `bun:"table:user_skill"`

	UserId  string `bun:"user_id,notnull"`
	SkillId int64  `bun:"skill_id,notnull"`
}

func userIdStrings(ids []devcard.UserId) []string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return s
}
