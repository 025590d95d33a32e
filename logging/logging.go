package logging

import (
	"fmt"
	"log/syslog"
	"time"

	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
)

// Setup configures the standard logrus logger. tag names the program in syslog.
func Setup(verbose bool, useSyslog bool, tag string) error {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if !useSyslog {
		return nil
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, tag)
	if err != nil {
		return fmt.Errorf("create syslog hook: %w", err)
	}
	logrus.AddHook(syslogHook)
	return nil
}
