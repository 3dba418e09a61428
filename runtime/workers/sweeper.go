package workers

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*SweeperWorker)(nil)

// SweeperWorker asks the dispatch loop for a sweep on a fixed period.
// The sweep itself runs on the loop so it never interleaves with a handler.
type SweeperWorker struct {
	log      *slog.Logger
	post     func(domain.Command) bool
	interval time.Duration
}

const defaultSweepInterval = time.Minute

func NewSweeperWorker(log *slog.Logger, post func(domain.Command) bool, interval time.Duration) *SweeperWorker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SweeperWorker{log: log, post: post, interval: interval}
}

func (w *SweeperWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !w.post(domain.SweepCommand{}) {
				w.log.Warn("Sweep skipped, dispatch loop unavailable")
			}
		}
	}
}
