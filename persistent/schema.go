package persistent

import (
	"context"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
)

// CreateSchema creates missing tables. It never alters existing ones.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       interface{}
		foreignKeys []string
	}{
		{model: (*Profile)(nil)},
		{model: (*Skill)(nil)},
		{
			model: (*UserSkill)(nil),
			foreignKeys: []string{
				`("user_id") REFERENCES "users" ("user_id")`,
				`("skill_id") REFERENCES "skills" ("id")`,
			},
		},
	}
	for _, table := range tables {
		modelType := reflect.TypeOf(table.model)
		logrus.WithField("model", modelType).Debugln("Creating table.")
		q := db.NewCreateTable().IfNotExists().Model(table.model)
		for _, fk := range table.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table %s: %w", modelType, err)
		}
	}

	_, err := db.NewCreateIndex().
		IfNotExists().
		Model((*Profile)(nil)).
		Index("users_created_at_idx").
		Column("created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create created_at index: %w", err)
	}
	_, err = db.NewCreateIndex().
		IfNotExists().
		Model((*UserSkill)(nil)).
		Index("user_skill_user_id_idx").
		Column("user_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create user_skill index: %w", err)
	}
	return nil
}
