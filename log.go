package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.InfoLevel)
}

// setupLogging routes log output to the logfile configured in config.
// Console output stays on announce()/prompts only, the log file gets the rest.
func setupLogging(config *Config) error {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logFile := config.LogFile
	if logFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	logger.SetOutput(f)
	return nil
}

func Log(args ...interface{}) {
	logger.Infoln(args...)
}

func Logf(format string, args ...interface{}) {
	logger.Infof(strings.TrimSuffix(format, "\n"), args...)
}

func LogDebug(args ...interface{}) {
	logger.Debugln(args...)
}

func LogError(args ...interface{}) {
	logger.Errorln(args...)
}

// announce prints a user-facing message to the console, original style.
func announce(text string, kind string) {
	prepend := "  "
	switch kind {
	case "critical":
		prepend = "❌ "
	case "error":
		prepend = "❗️ "
	case "warning":
		prepend = "⚠️ "
	case "info":
		prepend = "ℹ️ "
	case "celebrate":
		prepend = "🎉 "
	}
	fmt.Println(prepend + text)
}
