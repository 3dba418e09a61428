package workers

import (
	"arena-lab/domain"
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	req := require.New(t)
	ch := make(chan domain.Command, 4)
	ch <- domain.SweepCommand{}

	length, capacity, ok := sample(ch)
	req.True(ok)
	req.Equal(1, length)
	req.Equal(4, capacity)

	_, _, ok = sample("not a channel")
	req.False(ok)
}

func TestChannelCapacityWorker_WarnsOnBacklog(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Given a command channel almost full
	ch := make(chan domain.Command, 5)
	for range 4 {
		ch <- domain.SweepCommand{}
	}
	worker := NewChannelCapacityWorker(log, []NamedChannel{{Name: "commands", Channel: ch}}, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = worker.Run(ctx)

	// Then a warning names the channel
	req.Contains(buf.String(), "Channel backlog is high")
	req.Contains(buf.String(), "name=commands")
}
