package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/unkn0wn-root/memocache"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: zerolog.New(&buf).Level(zerolog.InfoLevel)}

	l.Debug("dropped", memocache.Fields{"x": 1})
	if buf.Len() != 0 {
		t.Fatalf("debug written below level: %s", buf.String())
	}

	l.Error("set failed", memocache.Fields{"key": "users:ab", "err": errors.New("timeout")})
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec["level"] != "error" || rec["message"] != "set failed" {
		t.Fatalf("record = %v", rec)
	}
	if rec["key"] != "users:ab" || rec["err"] != "timeout" {
		t.Fatalf("fields = %v", rec)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := Logger{L: zerolog.Nop()}
	l.Info("ignored", memocache.Fields{"a": 1})
}
