package persistent

import (
	"context"
	"fmt"

	"github.com/devcard/devcard"
	"github.com/uptrace/bun"
)

// Sample catalog for local development and the test environment.
var DefaultSkills = []devcard.Skill{
	{Id: 1, Name: "React"},
	{Id: 2, Name: "TypeScript"},
	{Id: 3, Name: "Go"},
	{Id: 4, Name: "Python"},
	{Id: 5, Name: "Rust"},
}

type SkillStore struct {
	DB *bun.DB
}

var _ devcard.SkillStore = (*SkillStore)(nil)

func (s *SkillStore) All(ctx context.Context) ([]devcard.Skill, error) {
	var skills []Skill
	err := s.DB.NewSelect().
		Model(&skills).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select skills: %w", err)
	}

	mapped := make([]devcard.Skill, len(skills))
	for i, skill := range skills {
		mapped[i] = skill.ToDomain()
	}
	return mapped, nil
}

func (s *SkillStore) NamesByIds(ctx context.Context, ids []devcard.SkillId) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}

	var names []string
	err := s.DB.NewSelect().
		Model((*Skill)(nil)).
		Column("name").
		Where("id IN (?)", bun.In(raw)).
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("select skill names: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// SeedSkills inserts the given skills, leaving already present ids untouched.
func SeedSkills(ctx context.Context, db *bun.DB, skills ...devcard.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	models := make([]Skill, len(skills))
	for i, skill := range skills {
		models[i] = Skill{Id: int64(skill.Id), Name: skill.Name}
	}
	_, err := db.NewInsert().
		Model(&models).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert skills: %w", err)
	}
	return nil
}
