// Package theme tracks a visitor's display theme, persists it to a
// key-value store and applies it to the presentation root.
package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Choice is a display theme.
type Choice string

const (
	Light  Choice = "light"
	Dark   Choice = "dark"
	Device Choice = "device" // follow the OS preference
)

// StorageKey is the key the preference is stored under.
const StorageKey = "theme"

// ErrUnknownChoice is returned for values outside Light, Dark and Device.
var ErrUnknownChoice = errors.New("unknown theme")

// Choices lists the valid values in menu order.
var Choices = []Choice{Light, Dark, Device}

// Parse validates s as a Choice.
func Parse(s string) (Choice, error) {
	switch c := Choice(s); c {
	case Light, Dark, Device:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChoice, s)
}

// Store is the persistence boundary. Implementations may fail at any time;
// failures never reach the caller of Preference.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Applier renders a theme on the presentation root.
type Applier interface {
	Apply(Choice)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(Choice)

func (f ApplierFunc) Apply(c Choice) { f(c) }

// Option configures a Preference.
type Option func(*Preference)

// OnStoreError registers a hook called for every swallowed store failure.
func OnStoreError(fn func(op string, err error)) Option {
	return func(p *Preference) { p.onStoreError = fn }
}

// Preference holds the current theme of one session.
type Preference struct {
	mu      sync.Mutex
	current Choice

	store        Store
	applier      Applier
	logger       *zap.Logger
	onStoreError func(op string, err error)
}

// Load reads the stored preference, defaulting to Device when nothing usable
// is stored or the store fails, and applies it once.
func Load(ctx context.Context, store Store, applier Applier, logger *zap.Logger, opts ...Option) *Preference {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Preference{store: store, applier: applier, logger: logger}
	for _, opt := range opts {
		opt(p)
	}

	p.current = Device
	if c, ok := p.readStored(ctx); ok {
		p.current = c
	}
	p.apply(p.current)
	return p
}

// readStored collapses the store result to an optional value. Absence,
// store errors and unknown values all read as "nothing stored".
func (p *Preference) readStored(ctx context.Context) (Choice, bool) {
	if p.store == nil {
		return "", false
	}
	raw, err := p.store.Get(ctx, StorageKey)
	if err != nil {
		p.storeFailed("get", err)
		return "", false
	}
	if raw == "" {
		return "", false
	}
	c, err := Parse(raw)
	if err != nil {
		p.logger.Warn("ignoring stored theme", zap.String("value", raw))
		return "", false
	}
	return c, true
}

// Current returns the active theme.
func (p *Preference) Current() Choice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Switch makes c the active theme: state first, then a best-effort write to
// the store, then the visible side effect. Only an unknown choice fails.
func (p *Preference) Switch(ctx context.Context, c Choice) error {
	if _, err := Parse(string(c)); err != nil {
		return err
	}

	p.mu.Lock()
	p.current = c
	p.mu.Unlock()

	if p.store != nil {
		if err := p.store.Set(ctx, StorageKey, string(c)); err != nil {
			p.storeFailed("set", err)
		}
	}
	p.apply(c)
	return nil
}

func (p *Preference) apply(c Choice) {
	if p.applier != nil {
		p.applier.Apply(c)
	}
}

func (p *Preference) storeFailed(op string, err error) {
	p.logger.Warn("theme store unavailable", zap.String("op", op), zap.Error(err))
	if p.onStoreError != nil {
		p.onStoreError(op, err)
	}
}
