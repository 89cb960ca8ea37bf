package domain

import "time"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the engine depends on them.

// EventSink receives game events after the engine has released its lock.
// Implementations must not block for long and report their own failures.
type EventSink interface {
	Publish(ev GameEvent)
}

// Clock supplies the current time. Tests swap in a manual clock.
type Clock func() time.Time
