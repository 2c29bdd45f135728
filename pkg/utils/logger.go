package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger for debug messages
var (
	isVerbose = false
	logFile   *os.File
	logger    = newLogger(io.Discard, logrus.WarnLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return l
}

// Log prints debug messages to the log file if verbose mode is enabled
func Log(text string, args ...interface{}) {
	logger.Debugf(text, args...)
}

// Warn records an absorbed failure.
func Warn(text string, args ...interface{}) {
	logger.Warnf(text, args...)
}

// WithFields returns an entry carrying structured context.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// Verbose reports whether debug output is enabled.
func Verbose() bool {
	return isVerbose
}

// InitLogger initializes the logging system
func InitLogger(verbose bool) {
	isVerbose = verbose

	if verbose {
		// Create log filename with current date
		now := time.Now()
		logFileName := filepath.Join(os.TempDir(), fmt.Sprintf("kanban_%s.log", now.Format("2006-01-02")))

		var err error
		logFile, err = os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Printf("Error creating log file: %v\n", err)
			return
		}

		logger = newLogger(logFile, logrus.DebugLevel)
		Log("Verbose logging enabled")
	}
}

// SetOutput redirects log output, used by tests to capture entries.
func SetOutput(w io.Writer, level logrus.Level) {
	logger = newLogger(w, level)
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = newLogger(io.Discard, logrus.WarnLevel)
}
