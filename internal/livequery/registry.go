package livequery

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Registry tracks every open Query on this instance so writes can
// invalidate them by key.
type Registry struct {
	mu      sync.RWMutex
	queries map[*Query]struct{}
	group   singleflight.Group
	timeout time.Duration
	logger  *zap.Logger
}

// NewRegistry bounds every fetch by timeout.
func NewRegistry(timeout time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		queries: make(map[*Query]struct{}),
		timeout: timeout,
		logger:  logger,
	}
}

// Open registers a new Query. Callers must Close it when done.
//
// scope names whose permissions the fetch runs with. Refreshes only
// coalesce within the same key and scope, so a fetch that checks access
// for one viewer never answers for another. Pass "" when the result is
// the same for everyone.
func (r *Registry) Open(key, scope string, interval time.Duration, fetch Fetcher) *Query {
	flight := key
	if scope != "" {
		flight = key + "|" + scope
	}
	q := &Query{
		key:         key,
		flight:      flight,
		fetch:       fetch,
		interval:    interval,
		timeout:     r.timeout,
		group:       &r.group,
		logger:      r.logger,
		invalidated: make(chan struct{}, 1),
	}
	r.mu.Lock()
	r.queries[q] = struct{}{}
	r.mu.Unlock()
	return q
}

func (r *Registry) Close(q *Query) {
	r.mu.Lock()
	delete(r.queries, q)
	r.mu.Unlock()
}

// Invalidate marks matching queries stale. A key ending in "*" matches by
// prefix.
func (r *Registry) Invalidate(keys ...string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for q := range r.queries {
		for _, k := range keys {
			if matchKey(k, q.key) {
				q.Invalidate()
				break
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queries)
}

func matchKey(pattern, key string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(key, prefix)
	}
	return pattern == key
}
