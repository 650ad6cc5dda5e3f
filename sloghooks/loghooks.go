// Package sloghooks reports memocache hook events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/memocache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ memocache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(ns, storageKey string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("memocache.hit", "ns", ns, "key", h.redact(storageKey))
}

func (h *Hooks) Miss(ns, storageKey string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("memocache.miss", "ns", ns, "key", h.redact(storageKey))
}

func (h *Hooks) BatchLookup(ns string, requested, missed int) {
	if h.l == nil {
		return
	}
	h.l.Debug("memocache.batch_lookup",
		"ns", ns,
		"requested", requested,
		"missed", missed)
}

func (h *Hooks) DecodeFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("memocache.decode_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) Dirtied(ns string, keys int) {
	if h.l == nil {
		return
	}
	h.l.Info("memocache.dirtied", "ns", ns, "keys", keys)
}

func (h *Hooks) PublishFailed(event string, failures int) {
	if h.l == nil {
		return
	}
	h.l.Error("memocache.publish_failed",
		"event", event,
		"failures", failures)
}
