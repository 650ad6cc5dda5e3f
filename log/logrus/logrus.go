package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/memocache"
)

var _ memocache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

func New(l *logrus.Logger) Logger { return Logger{E: logrus.NewEntry(l)} }

func (l Logger) Debug(msg string, f memocache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f memocache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f memocache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f memocache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f memocache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	// logrus only renders errors under its own ErrorKey
	fields := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			fields[logrus.ErrorKey] = err
			continue
		}
		fields[k] = v
	}
	return l.E.WithFields(fields)
}
