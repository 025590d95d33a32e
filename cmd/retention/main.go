// Command retention deletes the cards registered during the previous day (UTC+9 by
// default). Meant to be started by a scheduler once a day; the exit code tells the
// outcome apart:
//
//	0    profiles deleted
//	100  nothing registered during the period
//	2    configuration error (STORE_URL or STORE_SERVICE_KEY missing)
//	3    store could not be reached or queried
//	4    deletion failed
package main

import (
	"context"
	"flag"
	"os"

	"github.com/devcard/devcard/config"
	"github.com/devcard/devcard/logging"
	"github.com/devcard/devcard/persistent"
	"github.com/devcard/devcard/retention"
	"github.com/sirupsen/logrus"
)

func main() {
	flag.Parse()
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Errorln("Could not load configuration.")
		return retention.StatusConfigError.ExitCode()
	}
	if err := logging.Setup(cfg.Debug, cfg.Syslog, "devcard_retention"); err != nil {
		logrus.WithError(err).Errorln("Could not set up logging.")
		return retention.StatusConfigError.ExitCode()
	}
	if err := cfg.RequireRetention(); err != nil {
		logrus.WithError(err).Errorln("Missing required configuration.")
		return retention.StatusConfigError.ExitCode()
	}
	pcfg, err := cfg.Persistent()
	if err != nil {
		logrus.WithError(err).Errorln("Invalid store configuration.")
		return retention.StatusConfigError.ExitCode()
	}

	db, err := persistent.Open(ctx, pcfg)
	if err != nil {
		logrus.WithError(err).Errorln("Could not open database.")
		return retention.StatusFetchError.ExitCode()
	}
	defer db.Close()

	job := retention.Job{
		Store:  &persistent.ProfileStore{DB: db},
		Offset: cfg.Retention.Offset,
	}
	result := job.Run(ctx)
	logrus.
		WithField("status", result.Status.String()).
		WithField("deleted", result.Deleted).
		Infoln("Retention run finished.")
	return result.Status.ExitCode()
}
