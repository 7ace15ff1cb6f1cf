// Package orchestrator decides, from the persisted node record and live
// daemon probes, which idempotent steps bring the node to its target state,
// and runs them fail-fast. Re-invocation after a mid-sequence failure is
// the prescribed recovery mechanism, so every step must tolerate having
// already run.
package orchestrator

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/internal/swarm/config"
	"github.com/hexaswarm/swarmctl/pkg/events"
	"github.com/hexaswarm/swarmctl/pkg/invoker"
)

// State is the observable lifecycle state of the installation.
type State string

const (
	// StateUninitialized means no persisted record exists.
	StateUninitialized State = "uninitialized"
	// StateInitialized means the record and repo exist but the daemon is
	// not confirmed running.
	StateInitialized State = "initialized"
	// StateRunning means the daemon probe succeeds.
	StateRunning State = "running"
	// StateDegraded means the record requires the mesh overlay but the
	// overlay client is not connected.
	StateDegraded State = "degraded"
)

const settleDelay = 2 * time.Second

// Orchestrator converts the desired record plus live observations into
// ordered idempotent actions.
type Orchestrator struct {
	settings  *config.Settings
	store     Store
	keys      KeyManager
	node      Node
	overlay   Overlay
	inv       invoker.Invoker
	clock     clockwork.Clock
	bus       *events.Bus
	confirmer Confirmer
	logger    *logger.Logger
}

// Options carries the orchestrator's collaborators. Store, KeyManager,
// Node and Invoker are required; Overlay is required only for mesh mode.
type Options struct {
	Settings  *config.Settings
	Store     Store
	Keys      KeyManager
	Node      Node
	Overlay   Overlay
	Invoker   invoker.Invoker
	Clock     clockwork.Clock
	Bus       *events.Bus
	Confirmer Confirmer
	Logger    *logger.Logger
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDevelopment("orchestrator")
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmFunc(func(string) bool { return false })
	}

	return &Orchestrator{
		settings:  opts.Settings,
		store:     opts.Store,
		keys:      opts.Keys,
		node:      opts.Node,
		overlay:   opts.Overlay,
		inv:       opts.Invoker,
		clock:     opts.Clock,
		bus:       opts.Bus,
		confirmer: opts.Confirmer,
		logger:    opts.Logger,
	}
}

// Status reports the current lifecycle state from the persisted record and
// a live probe.
func (o *Orchestrator) Status(ctx context.Context) (State, *config.NodeConfig, error) {
	if !o.store.Exists() {
		return StateUninitialized, nil, nil
	}

	cfg, err := o.store.Load()
	if err != nil {
		return StateUninitialized, nil, err
	}

	if cfg.NetworkMode == config.ModeMesh && o.overlay != nil {
		if err := o.overlay.Verify(ctx); err != nil {
			return StateDegraded, cfg, nil
		}
	}

	if o.node.Reachable(ctx) {
		return StateRunning, cfg, nil
	}
	return StateInitialized, cfg, nil
}

// step is one unit of an action plan. Best-effort steps log their failure
// and let the plan continue; all others abort it.
type step struct {
	name       string
	bestEffort bool
	skip       bool
	fn         func(ctx context.Context) error
}

// runPlan executes steps in order with fail-fast semantics, publishing
// progress events so the caller can render them.
func (o *Orchestrator) runPlan(ctx context.Context, op string, steps []step) error {
	total := len(steps)
	for i, s := range steps {
		evt := events.StepEvent{Op: op, Step: s.name, Index: i + 1, Total: total}

		if s.skip {
			_ = o.bus.Publish(events.StepSkipped, evt)
			continue
		}

		_ = o.bus.Publish(events.StepStarted, evt)
		log := o.logger.WithStep(s.name)

		if err := s.fn(ctx); err != nil {
			if s.bestEffort {
				log.Info("best-effort step did not complete", "error", err)
				_ = o.bus.Publish(events.StepCompleted, evt)
				continue
			}

			evt.Err = err
			_ = o.bus.Publish(events.StepFailed, evt)
			return errors.NewStepError(s.name, "aborting remaining steps", err)
		}

		log.Debug("step completed")
		_ = o.bus.Publish(events.StepCompleted, evt)
	}
	return nil
}
