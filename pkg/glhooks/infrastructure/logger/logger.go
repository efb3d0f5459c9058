package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

// NewFileLogger appends to the file at path. The returned closer releases the file.
func NewFileLogger(path string, level logrus.Level) (applogger.MainLogger, io.Closer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open log file %v", path)
	}
	return NewLogger(file, level), file, nil
}

func NewLogger(out io.Writer, level logrus.Level) applogger.MainLogger {
	impl := logrus.New()
	impl.SetOutput(out)
	impl.SetLevel(level)
	impl.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableColors:   true,
	})
	return FromLogrus(impl)
}

func FromLogrus(impl *logrus.Logger) applogger.MainLogger {
	return &loggerImpl{impl}
}

type loggerImpl struct {
	logrus.FieldLogger
}

func (l *loggerImpl) WithField(key string, value interface{}) applogger.Logger {
	return &loggerImpl{l.FieldLogger.WithField(key, value)}
}

func (l *loggerImpl) WithFields(fields applogger.Fields) applogger.Logger {
	return &loggerImpl{l.FieldLogger.WithFields(logrus.Fields(fields))}
}

func (l *loggerImpl) Error(err error, args ...interface{}) {
	l.FieldLogger.WithError(err).Error(args...)
}

func (l *loggerImpl) Warning(err error, args ...interface{}) {
	if err == nil {
		l.FieldLogger.Warn(args...)
		return
	}
	l.FieldLogger.WithError(err).Warn(args...)
}

func (l *loggerImpl) FatalError(err error, args ...interface{}) {
	l.FieldLogger.WithError(err).Fatal(args...)
}
