// Package runtime owns the arena state and the single loop that mutates it.
// Transports only hand commands over; every room and session change happens here.
package runtime

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"arena-lab/moderation"
	"arena-lab/repositories"
	"arena-lab/runtime/workers"
	"arena-lab/services"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

//go:embed censored/*
var censoredFolder embed.FS

var _ contract.IOrchestrator = (*Orchestrator)(nil)

// Settings tune the loop and its satellite workers.
type Settings struct {
	CommandBufferSize int
	SweepInterval     time.Duration
	StaleRoomAfter    time.Duration
	StatsInterval     time.Duration
	CharReplacement   rune
}

type Orchestrator struct {
	log        *slog.Logger
	supervisor contract.ISupervisor
	outbox     *Outbox
	router     *Router
	commands   chan domain.Command
	done       chan struct{}
	stopOnce   sync.Once
	running    atomic.Bool
	stats      atomic.Pointer[domain.ArenaStats]
	settings   Settings
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor *workers.Supervisor,
	profiles repositories.IProfileRepository,
	tokens services.ISessionService,
	settings Settings,
) *Orchestrator {
	o := &Orchestrator{
		log:        log,
		supervisor: supervisor,
		outbox:     NewOutbox(log),
		commands:   make(chan domain.Command, settings.CommandBufferSize),
		done:       make(chan struct{}),
		settings:   settings,
	}
	seed := uint64(time.Now().UnixNano())
	o.router = NewRouter(log, o.outbox, profiles, tokens, o.runAsync,
		rand.New(rand.NewPCG(seed, seed>>1)), time.Now, settings.StaleRoomAfter)
	o.stats.Store(&domain.ArenaStats{})
	return o
}

// Connect registers the outbound sink of a new connection.
// It must be called before any command of that connection is dispatched.
func (o *Orchestrator) Connect(conn domain.ConnID, sink contract.EventSink) {
	o.outbox.Attach(conn, sink)
}

// Dispatch enqueues cmd for the loop, waiting for room in the buffer.
// It returns false once the orchestrator is stopped.
func (o *Orchestrator) Dispatch(cmd domain.Command) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.commands <- cmd:
		return true
	case <-o.done:
		return false
	}
}

// runAsync executes a profile store call on its own goroutine and feeds the
// outcome back through Dispatch.
func (o *Orchestrator) runAsync(task func() domain.Command) {
	go func() {
		if cmd := task(); cmd != nil {
			if !o.Dispatch(cmd) {
				o.log.Debug("Async outcome dropped, orchestrator stopped", "type", fmt.Sprintf("%T", cmd))
			}
		}
	}()
}

// Running reports whether the dispatch loop accepts commands.
func (o *Orchestrator) Running() bool { return o.running.Load() }

// Stats returns the latest snapshot published by the dispatch loop.
func (o *Orchestrator) Stats() domain.ArenaStats { return *o.stats.Load() }

// Start loads moderation, registers the workers and runs them under the supervisor.
// It returns once the supervisor is running.
func (o *Orchestrator) Start(ctx context.Context) error {
	// 1. Preparation, before any goroutine touches the router
	moderator, err := o.prepareModeration("censored", o.settings.CharReplacement)
	if err != nil {
		return err
	}
	o.router.WithModerator(moderator)

	// 2. Workers
	o.supervisor.Add(workers.NewDispatchWorker(o.log, o.router, o.commands, &o.stats))
	o.supervisor.Add(workers.NewSweeperWorker(o.log, o.Dispatch, o.settings.SweepInterval))
	if o.settings.StatsInterval > 0 {
		o.supervisor.Add(
			workers.NewProcessStatsWorker(o.log, &o.stats, o.settings.StatsInterval),
			workers.NewChannelCapacityWorker(o.log,
				[]workers.NamedChannel{{Name: "commands", Channel: o.commands}},
				o.settings.StatsInterval),
		)
	}

	// 3. Execution
	o.log.Info("Starting orchestrator and all supervised workers")
	o.running.Store(true)
	go func() {
		o.supervisor.Run(ctx)
		o.running.Store(false)
	}()
	return nil
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration(dir string, charReplacement rune) (*moderation.Moderator, error) {
	data, err := NewCensoredLoader(censoredFolder).LoadAll(dir)
	if err != nil {
		return nil, err
	}
	o.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	o.log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	return moderation.NewModerator(data.Words, charReplacement, o.log)
}

// Stop refuses new commands and cancels every supervised worker.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.log.Info("Requesting orchestrator shutdown")
		close(o.done)
		o.running.Store(false)
		o.supervisor.Stop()
	})
}
