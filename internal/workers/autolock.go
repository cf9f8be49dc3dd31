package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

const defaultTick = time.Second

// AutoLock logs a session out once it has been idle for the configured
// timeout. It checks on every tick, so the session may stay unlocked for up
// to one tick past the timeout.
type AutoLock struct {
	target Lockable
	idle   time.Duration
	tick   time.Duration
	now    func() time.Time
	log    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutoLock creates an AutoLock for target. The job is idle until Start is
// called. A non-positive tick defaults to one second.
func NewAutoLock(target Lockable, idle, tick time.Duration, log *logger.Logger) *AutoLock {
	if tick <= 0 {
		tick = defaultTick
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AutoLock{target: target, idle: idle, tick: tick, now: time.Now, log: log}
}

// Start stops any previously running job, then launches a goroutine that
// checks the session every tick. It exits when ctx is cancelled or Stop is
// called. A non-positive idle timeout leaves the job stopped.
func (a *AutoLock) Start(ctx context.Context) {
	a.Stop()
	if a.idle <= 0 {
		return
	}

	a.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		t := time.NewTicker(a.tick)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if a.target.LockIfIdle(a.now(), a.idle) {
					a.log.Info().Str("func", "*AutoLock.Start").Dur("idle", a.idle).Msg("session locked after inactivity")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine and waits for it to exit.
func (a *AutoLock) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}
