package memocache

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Adapters for zap, logrus, slog and zerolog
// live under log/. A nil Logger in Options disables logging.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// nsLogger adds the memoizer's namespace to every entry.
type nsLogger struct {
	ns string
	l  Logger
}

func scoped(l Logger, ns string) Logger {
	if l == nil {
		return NopLogger{}
	}
	if _, nop := l.(NopLogger); nop {
		return l
	}
	return nsLogger{ns: ns, l: l}
}

func (n nsLogger) Debug(msg string, f Fields) { n.l.Debug(msg, n.tag(f)) }
func (n nsLogger) Info(msg string, f Fields)  { n.l.Info(msg, n.tag(f)) }
func (n nsLogger) Warn(msg string, f Fields)  { n.l.Warn(msg, n.tag(f)) }
func (n nsLogger) Error(msg string, f Fields) { n.l.Error(msg, n.tag(f)) }

func (n nsLogger) tag(f Fields) Fields {
	out := make(Fields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out["ns"] = n.ns
	return out
}
