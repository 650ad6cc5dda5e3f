package memocache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyNamespace         = errors.New("memocache: empty namespace")
	ErrUnserializableArgument = errors.New("memocache: argument cannot be canonicalized")
	ErrInvalidBatchResult     = errors.New("memocache: batch function returned no mapping")
	ErrNilProvider            = errors.New("memocache: provider is required")
	ErrNilFunc                = errors.New("memocache: function is required")
	ErrNotMemoized            = errors.New("memocache: source has no namespace")
)

// ArgumentError reports an argument the key builder could not encode.
// Index is the argument (or batch item) position, -1 when unknown.
type ArgumentError struct {
	Index int
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v", ErrUnserializableArgument, e.Err)
	}
	return fmt.Sprintf("%v: argument %d: %v", ErrUnserializableArgument, e.Index, e.Err)
}

func (e *ArgumentError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrUnserializableArgument)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// PublishError collects every subscriber failure from one Publish call.
type PublishError struct {
	Event    string
	Failures []error
}

func (e *PublishError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "memocache: publish %q: %d subscriber(s) failed", e.Event, len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("; ")
		b.WriteString(f.Error())
	}
	return b.String()
}

func (e *PublishError) Unwrap() []error { return e.Failures }

// PanicError is a recovered subscriber panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("subscriber panic: %v", e.Value) }
