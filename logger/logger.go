package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns the application logger: JSON in release mode, colored text
// otherwise.
func New(release bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if release {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
