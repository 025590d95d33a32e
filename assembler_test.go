package devcard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/devcard/devcard"
	"github.com/devcard/devcard/inmem"
	"github.com/devcard/devcard/mock"
	"github.com/stretchr/testify/assert"
)

func TestAssemblerView(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := inmem.NewStore(
		devcard.Skill{Id: 1, Name: "React"},
		devcard.Skill{Id: 3, Name: "Go"},
	)
	err := store.Register(ctx, devcard.Profile{
		UserId:      "taro",
		Name:        "Taro",
		Description: "Hello",
		GithubId:    strPtr("taro-gh"),
	}, 3)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(store.AddSkillLink("taro", 1)) {
		return
	}

	assembler := &devcard.Assembler{Profiles: store, Skills: store}
	view, err := assembler.View(ctx, "taro")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(devcard.UserId("taro"), view.UserId)
	assert.Equal("Taro", view.Name)
	assert.ElementsMatch([]string{"React", "Go"}, view.Skills)
	if assert.NotNil(view.GithubUrl) {
		assert.Equal("https://github.com/taro-gh", *view.GithubUrl)
	}
	assert.Nil(view.QiitaUrl)
	assert.Nil(view.XUrl)
}

func TestAssemblerNotFound(t *testing.T) {
	assert := assert.New(t)

	store := inmem.NewStore()
	assembler := &devcard.Assembler{Profiles: store, Skills: store}

	_, err := assembler.View(context.Background(), "nobody")
	assert.ErrorIs(err, devcard.ErrProfileNotFound)
	var fetchErr *devcard.FetchError
	assert.False(errors.As(err, &fetchErr), "not found is not a fetch failure")
}

func TestAssemblerFetchErrors(t *testing.T) {
	assert := assert.New(t)
	failure := errors.New("connection refused")

	found := func(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
		return devcard.Profile{UserId: userId}, nil
	}
	linked := func(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
		return []devcard.SkillId{1}, nil
	}

	cases := []struct {
		op       string
		profiles mock.ProfileStore
		skills   mock.SkillStore
	}{
		{
			op: "profile",
			profiles: mock.ProfileStore{
				ByUserIdFn: func(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
					return devcard.Profile{}, failure
				},
			},
		},
		{
			op: "user skills",
			profiles: mock.ProfileStore{
				ByUserIdFn: found,
				SkillIdsByUserIdFn: func(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
					return nil, failure
				},
			},
		},
		{
			op:       "skill names",
			profiles: mock.ProfileStore{ByUserIdFn: found, SkillIdsByUserIdFn: linked},
			skills: mock.SkillStore{
				NamesByIdsFn: func(ctx context.Context, ids []devcard.SkillId) ([]string, error) {
					return nil, failure
				},
			},
		},
	}
	for _, c := range cases {
		assembler := &devcard.Assembler{Profiles: c.profiles, Skills: c.skills}
		_, err := assembler.View(context.Background(), "taro")

		var fetchErr *devcard.FetchError
		if assert.True(errors.As(err, &fetchErr), c.op) {
			assert.Equal(c.op, fetchErr.Op)
		}
		assert.ErrorIs(err, failure, c.op)
		assert.NotErrorIs(err, devcard.ErrProfileNotFound, c.op)
	}
}

func TestAssemblerNoSkillLinks(t *testing.T) {
	assert := assert.New(t)

	assembler := &devcard.Assembler{
		Profiles: mock.ProfileStore{
			ByUserIdFn: func(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
				return devcard.Profile{UserId: userId}, nil
			},
			SkillIdsByUserIdFn: func(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
				return []devcard.SkillId{}, nil
			},
		},
		// NamesByIdsFn is nil, calling it would panic
		Skills: mock.SkillStore{},
	}

	view, err := assembler.View(context.Background(), "taro")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{}, view.Skills)
}

func TestAssemblerDeduplicatesSkillIds(t *testing.T) {
	assert := assert.New(t)

	var requested []devcard.SkillId
	assembler := &devcard.Assembler{
		Profiles: mock.ProfileStore{
			ByUserIdFn: func(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
				return devcard.Profile{UserId: userId}, nil
			},
			SkillIdsByUserIdFn: func(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
				return []devcard.SkillId{3, 1, 3}, nil
			},
		},
		Skills: mock.SkillStore{
			NamesByIdsFn: func(ctx context.Context, ids []devcard.SkillId) ([]string, error) {
				requested = ids
				return []string{"React", "Go"}, nil
			},
		},
	}

	view, err := assembler.View(context.Background(), "taro")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]devcard.SkillId{3, 1}, requested)
	assert.Equal([]string{"React", "Go"}, view.Skills)
}
