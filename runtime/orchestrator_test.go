package runtime

import (
	"arena-lab/domain"
	"arena-lab/domain/event"
	"arena-lab/runtime/workers"
	"arena-lab/services"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// channelSink hands events over to the test goroutine.
type channelSink struct {
	events chan event.Event
}

func (s *channelSink) Consume(_ context.Context, e event.Event) error {
	s.events <- e
	return nil
}

func (s *channelSink) await(t *testing.T, name event.Name) event.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e := <-s.events:
			if e.Name == name {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", name)
		}
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := workers.NewSupervisor(log, 50*time.Millisecond)
	return NewOrchestrator(log, supervisor, newBadgerProfiles(t),
		services.NewSessionService("secret", time.Hour),
		Settings{
			CommandBufferSize: 16,
			SweepInterval:     time.Hour,
			StaleRoomAfter:    time.Hour,
			CharReplacement:   '*',
		})
}

func TestOrchestrator_LoginRoundTrip(t *testing.T) {
	req := require.New(t)
	o := newTestOrchestrator(t)
	req.NoError(o.Start(context.Background()))
	t.Cleanup(o.Stop)

	sink := &channelSink{events: make(chan event.Event, 32)}
	o.Connect("C1", sink)

	// When C1 logs in through the loop
	req.True(o.Dispatch(domain.LoginCommand{From: domain.From{Conn: "C1"}, Name: "alice"}))

	// Then the profile comes back from the store, followed by a resume token
	data := sink.await(t, event.UserData)
	profile, ok := data.Payload.(domain.Profile)
	req.True(ok)
	req.Equal("alice", profile.Username)
	token := sink.await(t, event.SessionToken)
	req.NotEmpty(token.Payload.(event.Token).Token)

	req.Eventually(func() bool { return o.Stats().Sessions == 1 }, time.Second, 10*time.Millisecond)
	req.True(o.Running())
}

func TestOrchestrator_CensorsRoomNamesFromEmbeddedLists(t *testing.T) {
	req := require.New(t)
	o := newTestOrchestrator(t)
	req.NoError(o.Start(context.Background()))
	t.Cleanup(o.Stop)

	sink := &channelSink{events: make(chan event.Event, 32)}
	o.Connect("C1", sink)

	req.True(o.Dispatch(domain.CreateRoomCommand{
		From:     domain.From{Conn: "C1"},
		Settings: domain.RoomSettings{Name: "Friday Arena"},
	}))

	joined := sink.await(t, event.RoomJoined)
	req.Equal("Friday Arena", joined.Payload.(event.RoomSnapshot).RoomName)
	req.Eventually(func() bool { return o.Stats().Rooms == 1 }, time.Second, 10*time.Millisecond)
}

func TestOrchestrator_DispatchAfterStopIsRefused(t *testing.T) {
	req := require.New(t)
	o := newTestOrchestrator(t)
	req.NoError(o.Start(context.Background()))

	// When the orchestrator is stopped twice
	o.Stop()
	o.Stop()

	// Then commands are refused and the loop reports itself down
	req.False(o.Dispatch(domain.GetLobbiesCommand{From: domain.From{Conn: "C1"}}))
	req.Eventually(func() bool { return !o.Running() }, time.Second, 10*time.Millisecond)
}
