package logger

import (
	"io"

	"github.com/sirupsen/logrus"

	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// LogrusLogger implements IAppLogger on top of logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

var _ usecasecontract.IAppLogger = (*LogrusLogger)(nil)

// NewLogger creates a text logger at the given level. Unknown levels fall back to info.
func NewLogger(level string) *LogrusLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// NewDiscardLogger returns a logger that writes nothing, for tests.
func NewDiscardLogger() *LogrusLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// WithField returns a child logger carrying key=value on every line.
func (l *LogrusLogger) WithField(key string, value interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// Entry exposes the underlying logrus entry for structured request logs.
func (l *LogrusLogger) Entry() *logrus.Entry {
	return l.entry
}

func (l *LogrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *LogrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *LogrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *LogrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Fatalf logs a fatal message and exits.
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}
