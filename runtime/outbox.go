package runtime

import (
	"arena-lab/contract"
	"arena-lab/domain"
	"arena-lab/domain/event"
	"context"
	"log/slog"
	"sync"
)

// Outbox resolves connection ids into their EventSink and delivers events.
// Sinks are attached from transport goroutines, so the map is guarded.
type Outbox struct {
	mu    sync.RWMutex
	log   *slog.Logger
	sinks map[domain.ConnID]contract.EventSink
}

func NewOutbox(log *slog.Logger) *Outbox {
	return &Outbox{log: log, sinks: make(map[domain.ConnID]contract.EventSink)}
}

func (o *Outbox) Attach(conn domain.ConnID, sink contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sinks[conn] = sink
}

func (o *Outbox) Detach(conn domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sinks, conn)
}

func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sinks)
}

// Send delivers evt to a single connection. Unknown connections are skipped.
func (o *Outbox) Send(ctx context.Context, conn domain.ConnID, evt event.Event) {
	o.mu.RLock()
	sink, ok := o.sinks[conn]
	o.mu.RUnlock()
	if !ok {
		return
	}
	if err := sink.Consume(ctx, evt); err != nil {
		o.log.Debug("Outbound event dropped", "conn", conn, "event", evt.Name, "error", err)
	}
}

// Broadcast delivers evt to every listed connection except the skipped one.
func (o *Outbox) Broadcast(ctx context.Context, conns []domain.ConnID, evt event.Event, skip domain.ConnID) {
	for _, conn := range conns {
		if conn == skip {
			continue
		}
		o.Send(ctx, conn, evt)
	}
}

// ToRoom delivers evt to every member of room.
func (o *Outbox) ToRoom(ctx context.Context, room *domain.Room, evt event.Event) {
	o.Broadcast(ctx, room.Members(), evt, "")
}

// ToOthers delivers evt to every member of room except the sender.
func (o *Outbox) ToOthers(ctx context.Context, room *domain.Room, sender domain.ConnID, evt event.Event) {
	o.Broadcast(ctx, room.Members(), evt, sender)
}
