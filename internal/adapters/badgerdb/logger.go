package badgerdb

import (
	"strings"

	"go.uber.org/zap"
)

// logger routes Badger's internal logging into zap.
type logger struct {
	s *zap.SugaredLogger
}

func newLogger(l *zap.Logger) *logger {
	return &logger{s: l.Named("badger").Sugar()}
}

func (l *logger) Errorf(format string, args ...any) {
	l.s.Errorf(strings.TrimSuffix(format, "\n"), args...)
}

func (l *logger) Warningf(format string, args ...any) {
	l.s.Warnf(strings.TrimSuffix(format, "\n"), args...)
}

func (l *logger) Infof(format string, args ...any) {
	l.s.Infof(strings.TrimSuffix(format, "\n"), args...)
}

func (l *logger) Debugf(format string, args ...any) {
	l.s.Debugf(strings.TrimSuffix(format, "\n"), args...)
}
