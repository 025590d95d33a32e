package retention

import (
	"context"
	"errors"
	"time"

	"github.com/devcard/devcard"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const logTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type Store interface {
	// User ids of profiles whose created_at lies in [from, to].
	CreatedBetween(ctx context.Context, from time.Time, to time.Time) ([]devcard.UserId, error)

	// Purge runs fn atomically: either every delete issued through tx is kept or none is.
	Purge(ctx context.Context, fn func(ctx context.Context, tx PurgeTx) error) error
}

type PurgeTx interface {
	DeleteSkillLinks(ctx context.Context, userIds []devcard.UserId) (int64, error)

	DeleteProfiles(ctx context.Context, userIds []devcard.UserId) (int64, error)
}

type Job struct {
	Store  Store
	Offset time.Duration
	Now    func() time.Time
	Log    logrus.FieldLogger
}

type Result struct {
	RunId   uuid.UUID
	Status  Status
	From    time.Time
	To      time.Time
	Deleted int64
	Err     error
}

// Table a purge stage failed on.
type stageError struct {
	table string
	err   error
}

func (e *stageError) Error() string {
	return "delete " + e.table + ": " + e.err.Error()
}

func (e *stageError) Unwrap() error {
	return e.err
}

// Run deletes the profiles registered during the previous civil day together with their
// skill links. Skill links are always deleted first.
func (j *Job) Run(ctx context.Context) Result {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	var baseLog logrus.FieldLogger = logrus.StandardLogger()
	if j.Log != nil {
		baseLog = j.Log
	}

	result := Result{RunId: uuid.New()}
	result.From, result.To = Window(now(), j.Offset)
	log := baseLog.
		WithField("run_id", result.RunId.String()).
		WithField("from", result.From.Format(logTimeFormat)).
		WithField("to", result.To.Format(logTimeFormat))
	log.Infoln("Retention window computed.")

	userIds, err := j.Store.CreatedBetween(ctx, result.From, result.To)
	if err != nil {
		result.Status = StatusFetchError
		result.Err = &devcard.FetchError{Op: "expired profiles", Err: err}
		log.WithError(err).Errorln("Could not fetch profiles for the period.")
		return result
	}
	if len(userIds) == 0 {
		result.Status = StatusNoop
		log.Infoln("No rows for the period.")
		return result
	}
	log = log.WithField("matched", len(userIds))
	log.Infoln("Deleting profiles.")

	var deleted int64
	err = j.Store.Purge(ctx, func(ctx context.Context, tx PurgeTx) error {
		_, err := tx.DeleteSkillLinks(ctx, userIds)
		if err != nil {
			return &stageError{table: "user_skill", err: err}
		}
		deleted, err = tx.DeleteProfiles(ctx, userIds)
		if err != nil {
			return &stageError{table: "users", err: err}
		}
		return nil
	})
	if err != nil {
		result.Status = StatusDeleteError
		var stageErr *stageError
		switch {
		case errors.As(err, &stageErr) && stageErr.table == "users":
			result.Err = &devcard.WriteError{Op: "delete profiles", Err: err}
			log.WithError(err).Errorln("Could not delete profiles. Skill link deletion was rolled back.")
		case errors.As(err, &stageErr):
			result.Err = &devcard.WriteError{Op: "delete skill links", Err: err}
			log.WithError(err).Errorln("Could not delete skill links. Profiles were not touched.")
		default:
			result.Err = &devcard.WriteError{Op: "purge", Err: err}
			log.WithError(err).Errorln("Could not commit deletion.")
		}
		return result
	}

	result.Status = StatusDeleted
	result.Deleted = deleted
	if deleted != int64(len(userIds)) {
		log.WithField("deleted", deleted).Warningln("Some profiles disappeared before deletion.")
	}
	log.WithField("deleted", deleted).Infoln("Deletion complete.")
	return result
}
