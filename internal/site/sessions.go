package site

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/Jokero/webpack.js.org/internal/kv"
	"github.com/Jokero/webpack.js.org/internal/theme"
)

// DefaultMaxSessions bounds the number of live controllers.
const DefaultMaxSessions = 1024

// Sessions maps session ids to controllers, evicting the least recently
// used one when full. Evicted sessions keep their stored preferences.
type Sessions struct {
	site  *Site
	store kv.Store
	opts  []theme.Option

	cache *lru.Cache
}

// NewSessions creates a registry whose preferences live in store.
func NewSessions(site *Site, store kv.Store, max int, opts ...theme.Option) (*Sessions, error) {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	cache, err := lru.New(max)
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}
	return &Sessions{site: site, store: store, opts: opts, cache: cache}, nil
}

// Get returns the controller for id, creating it on first use. The
// controller is built without holding the cache lock; when two requests
// race on a new id the first one added wins.
func (s *Sessions) Get(ctx context.Context, id string) *Controller {
	if v, ok := s.cache.Get(id); ok {
		return v.(*Controller)
	}
	var store theme.Store
	if s.store != nil {
		store = kv.WithPrefix(s.store, "session/"+id+"/")
	}
	c := s.site.NewController(ctx, store, s.opts...)
	if prev, ok, _ := s.cache.PeekOrAdd(id, c); ok {
		return prev.(*Controller)
	}
	return c
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
