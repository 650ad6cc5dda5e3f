package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/unkn0wn-root/memocache"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Debug("stored", memocache.Fields{"ns": "users"})
	if e := hook.LastEntry(); e == nil || e.Level != logrus.DebugLevel || e.Data["ns"] != "users" {
		t.Fatalf("debug entry = %+v", e)
	}

	boom := errors.New("boom")
	l.Error("publish failed", memocache.Fields{"err": boom, "event": "users"})
	e := hook.LastEntry()
	if e.Level != logrus.ErrorLevel || e.Message != "publish failed" {
		t.Fatalf("error entry = %+v", e)
	}
	if e.Data[logrus.ErrorKey] != boom || e.Data["event"] != "users" {
		t.Fatalf("data = %v", e.Data)
	}
	if len(hook.AllEntries()) != 2 {
		t.Fatalf("entries = %d", len(hook.AllEntries()))
	}
}
