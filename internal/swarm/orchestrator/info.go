package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/swarm/config"
)

// Info is the assembled view of the installation: the persisted record
// plus live observations.
type Info struct {
	State       State
	Config      *config.NodeConfig
	Version     string
	PeerCount   int
	Peers       []string
	OverlayAddr string
}

// Info gathers the record and live daemon facts. Probe failures degrade
// the view instead of failing it; a node that is down still has an info
// page.
func (o *Orchestrator) Info(ctx context.Context) (*Info, error) {
	state, cfg, err := o.Status(ctx)
	if err != nil {
		return nil, err
	}
	if state == StateUninitialized {
		return &Info{State: state}, nil
	}

	info := &Info{
		State:       state,
		Config:      cfg,
		OverlayAddr: cfg.OverlayAddr,
	}

	if v, err := o.node.Version(ctx); err == nil {
		info.Version = v
	}

	if state == StateRunning {
		if peers, err := o.node.SwarmPeers(ctx); err == nil {
			info.Peers = peers
			info.PeerCount = len(peers)
		}
	}

	return info, nil
}

// RoundTrip adds a file to the running node, reads it back by content
// identifier, and verifies the bytes match. This exercises the full
// content path end to end.
func (o *Orchestrator) RoundTrip(ctx context.Context, path string) (string, error) {
	if !o.node.Reachable(ctx) {
		return "", fmt.Errorf("%w: start the daemon before testing", errors.ErrDaemonNotRunning)
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read test file: %w", err)
	}

	cid, err := o.node.Add(ctx, path)
	if err != nil {
		return "", fmt.Errorf("content add failed: %w", err)
	}

	got, err := o.node.Cat(ctx, cid)
	if err != nil {
		return cid, fmt.Errorf("content retrieval failed for %s: %w", cid, err)
	}

	if got != string(want) {
		return cid, fmt.Errorf("round-trip mismatch for %s: stored %d bytes, got %d back", cid, len(want), len(got))
	}

	return cid, nil
}
