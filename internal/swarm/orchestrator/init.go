package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/swarm/config"
	"github.com/hexaswarm/swarmctl/internal/swarm/keys"
	"github.com/hexaswarm/swarmctl/internal/swarm/kubo"
)

// Init converges the installation to the initialized state described by
// desired. Every step is individually idempotent: a caller whose init
// failed mid-sequence re-runs the command and already-applied steps pass
// through as no-ops. There is no rollback.
//
// Changing role or network mode on an already-initialized node requires
// force; a swarm may already depend on this node's previous role.
func (o *Orchestrator) Init(ctx context.Context, desired *config.NodeConfig, force bool) error {
	op := o.logger.StartOp("init",
		"role", string(desired.Role),
		"network_mode", string(desired.NetworkMode),
		"base_port", desired.BasePort,
	)

	// All validation happens before any step mutates the system.
	if err := desired.Validate(); err != nil {
		op.Fail(err, "init rejected")
		return err
	}
	if desired.Role == config.RoleRegular {
		if err := keys.Validate(desired.SwarmKeyPath); err != nil {
			verr := errors.NewValidationError("swarm-key", err.Error())
			op.Fail(verr, "init rejected")
			return verr
		}
	}

	if o.store.Exists() {
		existing, err := o.store.Load()
		if err != nil {
			return err
		}
		if !existing.SameTopology(desired) && !force {
			err := fmt.Errorf("%w with role=%s mode=%s; re-run with --force to switch to role=%s mode=%s",
				errors.ErrAlreadyInitialized,
				existing.Role, existing.NetworkMode,
				desired.Role, desired.NetworkMode)
			op.Fail(err, "init rejected")
			return err
		}
		// Identity and overlay facts survive a re-init; they describe the
		// node, not the desired topology.
		desired.NodeID = existing.NodeID
		desired.LastStartedAt = existing.LastStartedAt
	}

	plan := []step{
		{name: "check-tools", fn: func(ctx context.Context) error {
			return o.CheckTools(ctx, desired.NetworkMode)
		}},
		{name: "overlay-up", skip: desired.NetworkMode != config.ModeMesh, fn: func(ctx context.Context) error {
			addr, err := o.overlay.EnsureConnected(ctx)
			if err != nil {
				return err
			}
			desired.OverlayAddr = addr
			return nil
		}},
		{name: "stop-daemon", bestEffort: true, fn: func(ctx context.Context) error {
			if !o.node.Reachable(ctx) {
				return nil
			}
			return o.node.Shutdown(ctx)
		}},
		{name: "repo-init", fn: o.node.InitRepo},
		{name: "swarm-key", fn: func(ctx context.Context) error {
			return o.ensureSwarmKey(desired)
		}},
		{name: "configure", fn: func(ctx context.Context) error {
			return o.node.ApplyPlan(ctx, kubo.ConfigPlan(desired))
		}},
		{name: "persist", fn: func(ctx context.Context) error {
			return o.store.Save(desired)
		}},
	}

	if err := o.runPlan(ctx, "init", plan); err != nil {
		op.Fail(err, "init failed")
		return err
	}

	op.Complete("node initialized", "record", o.store.Path())
	return nil
}

// ensureSwarmKey puts the shared secret in place. The bootstrap node
// originates the key; regular nodes import their copy. Either way the node
// binary reads it from its own data directory.
func (o *Orchestrator) ensureSwarmKey(desired *config.NodeConfig) error {
	repoKey := filepath.Join(o.node.RepoPath(), "swarm.key")

	if desired.Role == config.RoleBootstrap {
		src := desired.SwarmKeyPath
		if src == "" {
			src = o.settings.SwarmKeyDefaultPath()
		}
		path, err := o.keys.Generate(src)
		if err != nil {
			return err
		}
		desired.SwarmKeyPath = path
		return o.keys.Install(path, repoKey)
	}

	return o.keys.Install(desired.SwarmKeyPath, repoKey)
}

// CheckTools verifies the external binaries this configuration needs are on
// PATH. Missing tools fail with installation guidance rather than a bare
// exec error.
func (o *Orchestrator) CheckTools(_ context.Context, mode config.NetworkMode) error {
	if _, err := o.inv.LookPath(o.settings.IPFSBin); err != nil {
		return fmt.Errorf("%w: %s (install kubo from https://dist.ipfs.tech/#kubo)",
			errors.ErrToolNotFound, o.settings.IPFSBin)
	}

	if mode == config.ModeMesh {
		if _, err := o.inv.LookPath(o.settings.TailscaleBin); err != nil {
			return fmt.Errorf("%w: %s (install tailscale from https://tailscale.com/download)",
				errors.ErrToolNotFound, o.settings.TailscaleBin)
		}
	}

	return nil
}
