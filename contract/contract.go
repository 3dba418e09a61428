//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"arena-lab/domain"
	"arena-lab/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives outbound events for a single connection.
// Consume must not block the caller.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IHandler applies one command to the arena state, run to completion.
type IHandler interface {
	Handle(ctx context.Context, cmd domain.Command)
	Stats() domain.ArenaStats
}

// IOrchestrator is the surface seen by transports.
type IOrchestrator interface {
	Connect(conn domain.ConnID, sink EventSink)
	Dispatch(cmd domain.Command) bool
	Start(ctx context.Context) error
	Stop()
}
