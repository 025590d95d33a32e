package inmem

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/devcard/devcard"
	"github.com/devcard/devcard/retention"
)

var ErrForeignKey = errors.New("violates foreign key constraint")

type link struct {
	userId  devcard.UserId
	skillId devcard.SkillId
}

// Store keeps users, user_skill and skills in memory with the referential integrity of
// the relational schema: a link needs an existing profile and skill, and a profile
// cannot be deleted while links point at it.
type Store struct {
	// Now stamps created_at on registration. Defaults to time.Now.
	Now func() time.Time

	profiles map[devcard.UserId]devcard.Profile
	links    []link
	skills   []devcard.Skill
	mutex    sync.RWMutex
}

var (
	_ devcard.ProfileStore = (*Store)(nil)
	_ devcard.SkillStore   = (*Store)(nil)
	_ retention.Store      = (*Store)(nil)
)

func NewStore(skills ...devcard.Skill) *Store {
	sorted := append([]devcard.Skill(nil), skills...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id < sorted[j].Id })
	return &Store{
		profiles: make(map[devcard.UserId]devcard.Profile),
		links:    []link{},
		skills:   sorted,
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) ByUserId(ctx context.Context, userId devcard.UserId) (devcard.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, ok := s.profiles[userId]
	if !ok {
		return devcard.Profile{}, devcard.ErrProfileNotFound
	}
	return p, nil
}

func (s *Store) SkillIdsByUserId(ctx context.Context, userId devcard.UserId) ([]devcard.SkillId, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := []devcard.SkillId{}
	for _, l := range s.links {
		if l.userId == userId {
			ids = append(ids, l.skillId)
		}
	}
	return ids, nil
}

func (s *Store) Register(ctx context.Context, profile devcard.Profile, skillId devcard.SkillId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.profiles[profile.UserId]; ok {
		return &devcard.WriteError{Op: "insert profile", Err: devcard.ErrUserIdTaken}
	}
	if !s.skillExists(skillId) {
		return &devcard.WriteError{Op: "insert user skill",
			Err: fmt.Errorf("skill %d: %w", skillId, ErrForeignKey)}
	}
	profile.CreatedAt = s.now().UTC()
	s.profiles[profile.UserId] = profile
	s.links = append(s.links, link{userId: profile.UserId, skillId: skillId})
	return nil
}

// AddSkillLink adds an extra link for an existing profile. Registration only ever
// creates one; this exists to exercise the one-to-many read path.
func (s *Store) AddSkillLink(userId devcard.UserId, skillId devcard.SkillId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.profiles[userId]; !ok || !s.skillExists(skillId) {
		return ErrForeignKey
	}
	s.links = append(s.links, link{userId: userId, skillId: skillId})
	return nil
}

func (s *Store) skillExists(id devcard.SkillId) bool {
	for _, skill := range s.skills {
		if skill.Id == id {
			return true
		}
	}
	return false
}

func (s *Store) All(ctx context.Context) ([]devcard.Skill, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]devcard.Skill{}, s.skills...), nil
}

func (s *Store) NamesByIds(ctx context.Context, ids []devcard.SkillId) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	wanted := make(map[devcard.SkillId]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	names := []string{}
	for _, skill := range s.skills {
		if wanted[skill.Id] {
			names = append(names, skill.Name)
		}
	}
	return names, nil
}

func (s *Store) CreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]devcard.UserId, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// to is a millisecond instant, same matching as the relational store
	until := to.Add(time.Millisecond)
	matched := make([]devcard.Profile, 0)
	for _, p := range s.profiles {
		if !p.CreatedAt.Before(from) && p.CreatedAt.Before(until) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].UserId < matched[j].UserId
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	ids := make([]devcard.UserId, len(matched))
	for i, p := range matched {
		ids[i] = p.UserId
	}
	return ids, nil
}

// Purge stages deletes on a copy of the tables and commits them only when fn succeeds.
func (s *Store) Purge(ctx context.Context, fn func(ctx context.Context, tx retention.PurgeTx) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tx := &purgeTx{
		profiles: make(map[devcard.UserId]devcard.Profile, len(s.profiles)),
		links:    append([]link{}, s.links...),
	}
	for id, p := range s.profiles {
		tx.profiles[id] = p
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.profiles = tx.profiles
	s.links = tx.links
	return nil
}

type purgeTx struct {
	profiles map[devcard.UserId]devcard.Profile
	links    []link
}

func (tx *purgeTx) DeleteSkillLinks(ctx context.Context, userIds []devcard.UserId) (int64, error) {
	doomed := idSet(userIds)
	kept := tx.links[:0]
	var deleted int64
	for _, l := range tx.links {
		if doomed[l.userId] {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	tx.links = kept
	return deleted, nil
}

func (tx *purgeTx) DeleteProfiles(ctx context.Context, userIds []devcard.UserId) (int64, error) {
	doomed := idSet(userIds)
	for _, l := range tx.links {
		if doomed[l.userId] {
			return 0, fmt.Errorf("delete profile %q: %w", l.userId, ErrForeignKey)
		}
	}
	var deleted int64
	for id := range doomed {
		if _, ok := tx.profiles[id]; ok {
			delete(tx.profiles, id)
			deleted++
		}
	}
	return deleted, nil
}

func idSet(ids []devcard.UserId) map[devcard.UserId]bool {
	set := make(map[devcard.UserId]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
