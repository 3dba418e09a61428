package workers

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"context"
	"log/slog"
	"sync/atomic"
)

// Ensure *DispatchWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*DispatchWorker)(nil)

// DispatchWorker is the single goroutine allowed to touch arena state.
// Commands are handled one at a time, each to completion.
type DispatchWorker struct {
	log      *slog.Logger
	handler  contract.IHandler
	commands <-chan domain.Command
	stats    *atomic.Pointer[domain.ArenaStats]
}

func NewDispatchWorker(
	log *slog.Logger,
	handler contract.IHandler,
	commands <-chan domain.Command,
	stats *atomic.Pointer[domain.ArenaStats],
) *DispatchWorker {
	return &DispatchWorker{log: log, handler: handler, commands: commands, stats: stats}
}

func (w *DispatchWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping dispatch loop")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Command channel is closed")
				return nil
			}
			w.handler.Handle(ctx, cmd)
			snapshot := w.handler.Stats()
			w.stats.Store(&snapshot)
		}
	}
}
