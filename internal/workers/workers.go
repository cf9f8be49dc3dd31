package workers

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers returns the workers enabled by cfg for session. With a zero
// idle timeout the result is empty.
func NewWorkers(cfg config.Workers, session Lockable, log *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.IdleTimeout > 0 {
		w.workers = append(w.workers, NewAutoLock(session, cfg.IdleTimeout, cfg.Tick, log))
	}
	return w
}

func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
