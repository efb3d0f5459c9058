package service

import (
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

type hookLogger struct {
	logrus.FieldLogger
}

func newHookLogger() (applogger.Logger, *test.Hook) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	return &hookLogger{base}, hook
}

func (l *hookLogger) WithField(key string, value interface{}) applogger.Logger {
	return &hookLogger{l.FieldLogger.WithField(key, value)}
}

func (l *hookLogger) WithFields(fields applogger.Fields) applogger.Logger {
	return &hookLogger{l.FieldLogger.WithFields(logrus.Fields(fields))}
}

func (l *hookLogger) Error(err error, args ...interface{}) {
	l.FieldLogger.WithError(err).Error(args...)
}

func (l *hookLogger) Warning(err error, args ...interface{}) {
	l.FieldLogger.WithError(err).Warn(args...)
}
