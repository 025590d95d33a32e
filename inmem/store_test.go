package inmem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devcard/devcard"
	"github.com/devcard/devcard/retention"
	"github.com/stretchr/testify/assert"
)

func TestStoreRegister(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	createdAt := time.Date(2024, 3, 14, 12, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	store := NewStore(devcard.Skill{Id: 3, Name: "Go"}, devcard.Skill{Id: 1, Name: "React"})
	store.Now = func() time.Time { return createdAt }

	err := store.Register(ctx, devcard.Profile{UserId: "taro", Name: "Taro", Description: "Hi"}, 3)
	if !assert.NoError(err) {
		return
	}

	profile, err := store.ByUserId(ctx, "taro")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("Taro", profile.Name)
	assert.True(createdAt.Equal(profile.CreatedAt))
	assert.Equal(time.UTC, profile.CreatedAt.Location())

	err = store.Register(ctx, devcard.Profile{UserId: "taro", Name: "Other", Description: "Hi"}, 1)
	assert.ErrorIs(err, devcard.ErrUserIdTaken)

	err = store.Register(ctx, devcard.Profile{UserId: "jiro", Name: "Jiro", Description: "Hi"}, 99)
	assert.ErrorIs(err, ErrForeignKey)
	_, err = store.ByUserId(ctx, "jiro")
	assert.ErrorIs(err, devcard.ErrProfileNotFound)

	skills, err := store.All(ctx)
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]devcard.Skill{{Id: 1, Name: "React"}, {Id: 3, Name: "Go"}}, skills)
}

func TestStoreAddSkillLink(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := NewStore(devcard.Skill{Id: 1, Name: "React"}, devcard.Skill{Id: 2, Name: "TypeScript"})
	assert.ErrorIs(store.AddSkillLink("taro", 1), ErrForeignKey)

	if !assert.NoError(store.Register(ctx, devcard.Profile{UserId: "taro"}, 1)) {
		return
	}
	assert.NoError(store.AddSkillLink("taro", 2))
	assert.NoError(store.AddSkillLink("taro", 1))
	assert.ErrorIs(store.AddSkillLink("taro", 7), ErrForeignKey)

	ids, err := store.SkillIdsByUserId(ctx, "taro")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]devcard.SkillId{1, 2, 1}, ids)
}

func TestStorePurge(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := NewStore(devcard.Skill{Id: 1, Name: "React"})
	for _, id := range []devcard.UserId{"taro", "jiro"} {
		if !assert.NoError(store.Register(ctx, devcard.Profile{UserId: id}, 1)) {
			return
		}
	}

	t.Run("profiles with links are protected", func(t *testing.T) {
		err := store.Purge(ctx, func(ctx context.Context, tx retention.PurgeTx) error {
			_, err := tx.DeleteProfiles(ctx, []devcard.UserId{"taro"})
			return err
		})
		assert.ErrorIs(err, ErrForeignKey)
		_, err = store.ByUserId(ctx, "taro")
		assert.NoError(err)
	})

	t.Run("failed purge is rolled back", func(t *testing.T) {
		failure := errors.New("abort")
		err := store.Purge(ctx, func(ctx context.Context, tx retention.PurgeTx) error {
			deleted, err := tx.DeleteSkillLinks(ctx, []devcard.UserId{"taro"})
			assert.NoError(err)
			assert.Equal(int64(1), deleted)
			return failure
		})
		assert.ErrorIs(err, failure)
		ids, err := store.SkillIdsByUserId(ctx, "taro")
		assert.NoError(err)
		assert.Equal([]devcard.SkillId{1}, ids)
	})

	t.Run("links then profiles", func(t *testing.T) {
		var deleted int64
		err := store.Purge(ctx, func(ctx context.Context, tx retention.PurgeTx) error {
			if _, err := tx.DeleteSkillLinks(ctx, []devcard.UserId{"taro", "nobody"}); err != nil {
				return err
			}
			var err error
			deleted, err = tx.DeleteProfiles(ctx, []devcard.UserId{"taro", "nobody"})
			return err
		})
		assert.NoError(err)
		assert.Equal(int64(1), deleted)

		_, err = store.ByUserId(ctx, "taro")
		assert.ErrorIs(err, devcard.ErrProfileNotFound)
		_, err = store.ByUserId(ctx, "jiro")
		assert.NoError(err)
		ids, err := store.SkillIdsByUserId(ctx, "jiro")
		assert.NoError(err)
		assert.Equal([]devcard.SkillId{1}, ids)
	})
}

func TestStoreCreatedBetweenOrder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := NewStore(devcard.Skill{Id: 1, Name: "React"})
	at := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	register := func(userId devcard.UserId, createdAt time.Time) {
		store.Now = func() time.Time { return createdAt }
		assert.NoError(store.Register(ctx, devcard.Profile{UserId: userId}, 1))
	}
	register("b", at)
	register("c", at.Add(-time.Hour))
	register("a", at)

	ids, err := store.CreatedBetween(ctx, at.Add(-2*time.Hour), at)
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]devcard.UserId{"c", "a", "b"}, ids)
}
