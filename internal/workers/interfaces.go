// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Start must not block: implementations spawn their own goroutine, which
// exits when ctx is cancelled or Stop is called. Stop blocks until that
// goroutine has exited and is safe to call on a stopped worker.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Lockable is what the auto-lock worker needs from a vault session.
type Lockable interface {
	// LockIfIdle logs out when nothing happened for idle as of now and
	// reports whether it did.
	LockIfIdle(now time.Time, idle time.Duration) bool
}
