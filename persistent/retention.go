package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devcard/devcard"
	"github.com/devcard/devcard/retention"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Key of the transaction scoped advisory lock serializing purges of concurrent runs.
const purgeLockKey = 0x64657663617264

var _ retention.Store = (*ProfileStore)(nil)

// CreatedBetween matches created_at in [from, to]. to is a millisecond instant, so
// anything before the next millisecond matches too and no microsecond falls between two
// consecutive windows.
func (s *ProfileStore) CreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]devcard.UserId, error) {
	var ids []string
	err := s.DB.NewSelect().
		Model((*Profile)(nil)).
		Column("user_id").
		Where("created_at >= ?", from.UTC()).
		Where("created_at < ?", to.UTC().Add(time.Millisecond)).
		Order("created_at ASC", "user_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("select profiles created between: %w", err)
	}

	userIds := make([]devcard.UserId, len(ids))
	for i, id := range ids {
		userIds[i] = devcard.UserId(id)
	}
	return userIds, nil
}

func (s *ProfileStore) Purge(ctx context.Context, fn func(ctx context.Context, tx retention.PurgeTx) error) error {
	return s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if s.DB.Dialect().Name() == dialect.PG {
			if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", purgeLockKey); err != nil {
				return fmt.Errorf("acquire purge lock: %w", err)
			}
		}
		return fn(ctx, purgeTx{tx: tx})
	})
}

type purgeTx struct {
	tx bun.Tx
}

func (p purgeTx) DeleteSkillLinks(ctx context.Context, userIds []devcard.UserId) (int64, error) {
	if len(userIds) == 0 {
		return 0, nil
	}
	res, err := p.tx.NewDelete().
		Model((*UserSkill)(nil)).
		Where("user_id IN (?)", bun.In(userIdStrings(userIds))).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete user skills: %w", err)
	}
	return res.RowsAffected()
}

func (p purgeTx) DeleteProfiles(ctx context.Context, userIds []devcard.UserId) (int64, error) {
	if len(userIds) == 0 {
		return 0, nil
	}
	res, err := p.tx.NewDelete().
		Model((*Profile)(nil)).
		Where("user_id IN (?)", bun.In(userIdStrings(userIds))).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete profiles: %w", err)
	}
	return res.RowsAffected()
}
