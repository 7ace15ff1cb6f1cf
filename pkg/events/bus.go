// Package events carries orchestration progress events between the lifecycle
// orchestrator and whoever is rendering them (the CLI's console reporter,
// test harnesses).
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gookitEvent "github.com/gookit/event"
)

// Event type names published by the orchestrator.
const (
	StepStarted   = "step.started"
	StepCompleted = "step.completed"
	StepFailed    = "step.failed"
	StepSkipped   = "step.skipped"
)

// StepEvent describes one orchestration step crossing a lifecycle boundary.
type StepEvent struct {
	ID        string
	Op        string // the command being run: "init", "start", ...
	Step      string // step name: "repo-init", "configure", ...
	Index     int    // position in the plan, 1-based
	Total     int    // number of steps in the plan
	Err       error  // set on step.failed
	Timestamp time.Time
}

// Handler processes a step event.
type Handler func(evt StepEvent)

// Bus is a thin publish/subscribe wrapper over gookit/event.
type Bus struct {
	manager *gookitEvent.Manager

	mu     sync.Mutex
	closed bool
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{
		manager: gookitEvent.NewManager("swarmctl"),
	}
}

// Publish fires a step event. Events get a uuid assigned if the caller left
// the ID empty.
func (b *Bus) Publish(eventType string, evt StepEvent) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("event bus is closed")
	}
	b.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	err, _ := b.manager.Fire(eventType, gookitEvent.M{"payload": evt})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	listener := gookitEvent.ListenerFunc(func(e gookitEvent.Event) error {
		if evt, ok := e.Get("payload").(StepEvent); ok {
			handler(evt)
			return nil
		}
		return fmt.Errorf("invalid event payload: %T", e.Get("payload"))
	})
	b.manager.On(eventType, listener, gookitEvent.Normal)
}

// SubscribeAll registers a handler for every step event type.
func (b *Bus) SubscribeAll(handler Handler) {
	for _, et := range []string{StepStarted, StepCompleted, StepFailed, StepSkipped} {
		b.Subscribe(et, handler)
	}
}

// Close shuts down the bus; further publishes fail.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.manager.Clear()
	b.closed = true
	return nil
}
