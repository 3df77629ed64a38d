// Package logging builds the diagnostic logger shared by the engine, the
// loader and the front ends.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/config"
)

// New returns a logger configured by cfg. The LOG_LEVEL environment
// variable overrides the configured level. Logs go to cfg.File when set,
// so the terminal front end's screen is left alone.
func New(cfg config.Logging) (*logrus.Logger, error) {
	log := logrus.New()

	level := cfg.Level
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)

	if strings.ToLower(cfg.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
	}
	log.SetOutput(out)
	return log, nil
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
