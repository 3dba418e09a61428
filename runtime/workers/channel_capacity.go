package workers

import (
	"arena-lab/contract"
	"context"
	"log/slog"
	"reflect"
	"time"
)

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

// backlogWarnRatio is the fill ratio above which a channel is reported as a warning.
const backlogWarnRatio = 0.8

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length of buffered channels.
// Reading len and cap is non-blocking so the loop is never disturbed.
type ChannelCapacityWorker struct {
	log      *slog.Logger
	channels []NamedChannel
	interval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel, interval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{log: log, channels: channels, interval: interval}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, nc := range w.channels {
				length, capacity, ok := sample(nc.Channel)
				if !ok {
					w.log.Error("Provided object is not a channel", "name", nc.Name)
					continue
				}
				if capacity > 0 && float64(length)/float64(capacity) >= backlogWarnRatio {
					w.log.Warn("Channel backlog is high", "name", nc.Name, "length", length, "capacity", capacity)
				} else {
					w.log.Debug("Channel capacity", "name", nc.Name, "length", length, "capacity", capacity)
				}
			}
		}
	}
}

func sample(ch any) (length, capacity int, ok bool) {
	v := reflect.ValueOf(ch)
	if v.Kind() != reflect.Chan {
		return 0, 0, false
	}
	return v.Len(), v.Cap(), true
}
