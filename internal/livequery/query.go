// Package livequery keeps a client's view of a query fresh. Each Query is
// refreshed on a poll interval and whenever it is invalidated. Both paths
// run the same Refresh. Overlapping refreshes of the same key and scope
// share one fetch, and a refresh that returns identical data is not
// reported.
package livequery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the current result. It must be idempotent.
type Fetcher func(ctx context.Context) (any, error)

// Snapshot is one observed result.
type Snapshot struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
	At   time.Time       `json:"at"`
}

// Query is one subscriber's view of a key. Queries opened with the same
// key and scope coalesce their fetches.
type Query struct {
	key      string
	flight   string
	fetch    Fetcher
	interval time.Duration
	timeout  time.Duration
	group    *singleflight.Group
	logger   *zap.Logger

	invalidated chan struct{}

	mu      sync.Mutex
	hash    uint64
	hasHash bool
}

func (q *Query) Key() string {
	return q.key
}

// Invalidate schedules a refresh. Calls made while one is already pending
// collapse into it.
func (q *Query) Invalidate() {
	select {
	case q.invalidated <- struct{}{}:
	default:
	}
}

// Forget drops the last seen result so the next Refresh reports a change.
// Call it when a snapshot could not be delivered.
func (q *Query) Forget() {
	q.mu.Lock()
	q.hasHash = false
	q.mu.Unlock()
}

// Refresh fetches and reports whether the result differs from the last one
// this Query saw. The fetch is bounded by the query timeout and detached
// from ctx cancellation so a coalesced caller can't abort it for others.
func (q *Query) Refresh(ctx context.Context) (Snapshot, bool, error) {
	v, err, _ := q.group.Do(q.flight, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
		defer cancel()

		data, err := q.fetch(fctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", q.key, err)
		}
		return raw, nil
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("refresh %s: %w", q.key, err)
	}

	raw := v.([]byte)
	sum := xxhash.Sum64(raw)

	q.mu.Lock()
	changed := !q.hasHash || sum != q.hash
	q.hash, q.hasHash = sum, true
	q.mu.Unlock()

	return Snapshot{Key: q.key, Data: raw, At: time.Now().UTC()}, changed, nil
}

// Run refreshes once immediately, then on every tick and invalidation,
// calling onChange only when the result changed. Fetch errors are logged
// and the previous snapshot stays in place. Run returns when ctx is done.
func (q *Query) Run(ctx context.Context, onChange func(Snapshot)) {
	refresh := func(reason string) {
		snap, changed, err := q.Refresh(ctx)
		if err != nil {
			if ctx.Err() == nil {
				q.logger.Warn("live query refresh failed",
					zap.String("key", q.key),
					zap.String("reason", reason),
					zap.Error(err),
				)
			}
			return
		}
		if changed {
			onChange(snap)
		}
	}

	refresh("initial")

	var tick <-chan time.Time
	if q.interval > 0 {
		ticker := time.NewTicker(q.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			refresh("poll")
		case <-q.invalidated:
			refresh("invalidated")
		}
	}
}
