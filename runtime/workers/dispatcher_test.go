package workers

import (
	"arena-lab/domain"
	"arena-lab/mocks"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatchWorker_HandlesInOrderAndPublishesStats(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler := mocks.NewMockIHandler(ctrl)

	first := domain.JoinRoomCommand{From: domain.From{Conn: "A"}, RoomID: "r"}
	second := domain.LeaveRoomCommand{From: domain.From{Conn: "A"}}

	// Given commands that must be applied in arrival order
	gomock.InOrder(
		handler.EXPECT().Handle(gomock.Any(), first),
		handler.EXPECT().Stats().Return(domain.ArenaStats{Rooms: 1, Players: 1}),
		handler.EXPECT().Handle(gomock.Any(), second),
		handler.EXPECT().Stats().Return(domain.ArenaStats{Rooms: 0}),
	)

	commands := make(chan domain.Command, 2)
	commands <- first
	commands <- second
	close(commands)

	var stats atomic.Pointer[domain.ArenaStats]
	worker := NewDispatchWorker(log, handler, commands, &stats)

	// When the channel is drained
	err := worker.Run(context.Background())

	// Then the worker ends cleanly with the latest snapshot published
	req.NoError(err)
	req.Equal(domain.ArenaStats{}, *stats.Load())
}

func TestDispatchWorker_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler := mocks.NewMockIHandler(ctrl)

	var stats atomic.Pointer[domain.ArenaStats]
	worker := NewDispatchWorker(slog.Default(), handler, make(chan domain.Command), &stats)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req.ErrorIs(worker.Run(ctx), context.DeadlineExceeded)
}
