package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/swarm/config"
)

// Start brings the daemon up and waits until it is reachable. An
// already-running daemon is a successful no-op. The probe is polled at the
// configured interval up to a bounded timeout; exceeding it is a timeout
// failure, distinct from tool failure, so callers know to check logs and
// ports rather than reinstall.
func (o *Orchestrator) Start(ctx context.Context) error {
	if !o.store.Exists() {
		return fmt.Errorf("%w: run init first", errors.ErrNotInitialized)
	}

	cfg, err := o.store.Load()
	if err != nil {
		return err
	}

	op := o.logger.StartOp("start")

	if o.node.Reachable(ctx) {
		op.Complete("daemon already running")
		return nil
	}

	// The overlay must be routable before the daemon advertises addresses
	// over it. Verify never drops into interactive authentication; start
	// blocks with an instruction instead.
	if cfg.NetworkMode == config.ModeMesh {
		if err := o.overlay.Verify(ctx); err != nil {
			err = fmt.Errorf("%w; run `tailscale up` (or swarmctl init) and retry", err)
			op.Fail(err, "start blocked")
			return err
		}
	}

	pid, err := o.node.StartDaemon()
	if err != nil {
		op.Fail(err, "daemon launch failed")
		return errors.NewStepError("daemon-launch", "could not launch daemon", err)
	}

	if err := o.waitReachable(ctx); err != nil {
		op.Fail(err, "daemon did not come up")
		return err
	}

	// Identity retrieval failing does not un-start the daemon; it only
	// degrades the info/status views.
	if id, err := o.node.ID(ctx); err != nil {
		o.logger.Info("daemon started but identity query failed", "error", err)
	} else {
		cfg.NodeID = id
	}

	now := o.clock.Now()
	cfg.LastStartedAt = &now

	if err := o.store.Save(cfg); err != nil {
		op.Fail(err, "daemon started but record update failed")
		return err
	}

	op.Complete("daemon running", "pid", pid, "node_id", cfg.NodeID)
	return nil
}

// waitReachable polls the daemon probe until it answers or the timeout
// ceiling is hit.
func (o *Orchestrator) waitReachable(ctx context.Context) error {
	interval := time.Duration(o.settings.PollSeconds) * time.Second
	timeout := time.Duration(o.settings.StartTimeout) * time.Second
	deadline := o.clock.Now().Add(timeout)

	for {
		if o.node.Reachable(ctx) {
			return nil
		}
		if !o.clock.Now().Add(interval).After(deadline) {
			o.clock.Sleep(interval)
			continue
		}
		return fmt.Errorf("%w after %s", errors.ErrStartTimeout, timeout)
	}
}

// Stop shuts the daemon down: graceful shutdown through its own control
// channel first, forceful process termination by name pattern if that does
// not take. A daemon that is not running is success, not an error.
func (o *Orchestrator) Stop(ctx context.Context) error {
	op := o.logger.StartOp("stop")

	if !o.node.Reachable(ctx) {
		op.Complete("no daemon running")
		return nil
	}

	if err := o.node.Shutdown(ctx); err != nil {
		o.logger.Info("graceful shutdown failed, falling back to kill", "error", err)
	}
	o.clock.Sleep(settleDelay)

	if o.node.Reachable(ctx) {
		if _, err := o.inv.Run(ctx, "pkill", "-f", "ipfs daemon"); err != nil {
			op.Fail(err, "forceful termination failed")
			return fmt.Errorf("failed to terminate daemon: %w", err)
		}
		o.clock.Sleep(settleDelay)
	}

	op.Complete("daemon stopped")
	return nil
}

// Clean tears the installation down to the uninitialized state: stops the
// daemon best-effort, then removes the node's data directory and the
// persisted configuration. Irreversible, so it is gated on the confirmer.
// Partial removal failures are reported and whatever was not yet removed
// stays behind.
func (o *Orchestrator) Clean(ctx context.Context) error {
	prompt := fmt.Sprintf("This deletes %s and %s permanently. Continue?",
		o.node.RepoPath(), o.settings.ConfigDir)
	if !o.confirmer.Confirm(prompt) {
		o.logger.Info("clean aborted by user")
		return nil
	}

	op := o.logger.StartOp("clean")

	if err := o.Stop(ctx); err != nil {
		o.logger.Info("could not stop daemon before clean", "error", err)
	}

	if err := os.RemoveAll(o.node.RepoPath()); err != nil {
		op.Fail(err, "failed to remove node data directory")
		return fmt.Errorf("failed to remove %s: %w", o.node.RepoPath(), err)
	}

	if err := os.RemoveAll(o.settings.ConfigDir); err != nil {
		op.Fail(err, "failed to remove configuration directory")
		return fmt.Errorf("failed to remove %s: %w", o.settings.ConfigDir, err)
	}

	op.Complete("installation removed")
	return nil
}
