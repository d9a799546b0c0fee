package realtime

import (
	"context"

	"go.uber.org/zap"
)

// Invalidator marks live queries stale. A key ending in "*" is a prefix.
type Invalidator interface {
	Invalidate(keys ...string)
}

// Announcer makes a committed write visible: live queries on this
// instance are invalidated right away, then an INSERT event is published
// for every other instance. Both steps are best-effort.
type Announcer struct {
	inv    Invalidator
	pub    Publisher
	logger *zap.Logger
}

func NewAnnouncer(inv Invalidator, pub Publisher, logger *zap.Logger) *Announcer {
	return &Announcer{inv: inv, pub: pub, logger: logger}
}

// Insert invalidates keys locally and publishes record as an INSERT on
// table. Publish failures are logged, never returned.
func (a *Announcer) Insert(ctx context.Context, table string, record any, keys ...string) {
	if a == nil {
		return
	}
	if a.inv != nil && len(keys) > 0 {
		a.inv.Invalidate(keys...)
	}
	if a.pub == nil {
		return
	}
	ev, err := NewInsert(table, record)
	if err != nil {
		a.logger.Warn("failed to build realtime event", zap.String("table", table), zap.Error(err))
		return
	}
	if err := a.pub.Publish(ctx, ev); err != nil {
		a.logger.Warn("failed to publish realtime event", zap.String("table", table), zap.Error(err))
	}
}

// Invalidate is for writes that have no INSERT event of their own,
// like deletes and read-flag updates.
func (a *Announcer) Invalidate(keys ...string) {
	if a == nil || a.inv == nil {
		return
	}
	a.inv.Invalidate(keys...)
}
