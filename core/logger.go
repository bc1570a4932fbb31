package core

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the runtime logger from config. Debug logs switch the
// level; format is "text" or "json".
func NewLogger(cfg Config) *logrus.Logger {
	log := logrus.New()

	if cfg.DebugLogs {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
