package workers

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*ProcessStatsWorker)(nil)

// ProcessStatsWorker logs process resources next to the arena counters.
type ProcessStatsWorker struct {
	log      *slog.Logger
	arena    *atomic.Pointer[domain.ArenaStats]
	interval time.Duration
}

func NewProcessStatsWorker(log *slog.Logger, arena *atomic.Pointer[domain.ArenaStats], interval time.Duration) *ProcessStatsWorker {
	return &ProcessStatsWorker{log: log, arena: arena, interval: interval}
}

func (w *ProcessStatsWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			arena := domain.ArenaStats{}
			if snapshot := w.arena.Load(); snapshot != nil {
				arena = *snapshot
			}
			w.log.Info("Process stats",
				"pid", stats.PID,
				"status", stats.Status,
				"cpu_percent", stats.CPUPercent,
				"rss_bytes", stats.RSSBytes,
				"rooms", arena.Rooms,
				"players", arena.Players,
				"sessions", arena.Sessions,
				"connections", arena.Connections,
			)
		}
	}
}

// selfStats retrieves memory, CPU and OS status for the given process.
func selfStats(p *process.Process) (domain.ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return domain.ProcessStats{}, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return domain.ProcessStats{}, err
	}
	status, err := p.Status()
	if err != nil {
		return domain.ProcessStats{}, err
	}
	return domain.ProcessStats{
		PID:        p.Pid,
		Status:     status,
		CPUPercent: cpuPercent,
		RSSBytes:   memInfo.RSS,
	}, nil
}
