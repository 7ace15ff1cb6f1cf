package orchestrator

import (
	"context"

	"github.com/hexaswarm/swarmctl/internal/swarm/config"
	"github.com/hexaswarm/swarmctl/internal/swarm/kubo"
	"github.com/hexaswarm/swarmctl/internal/swarm/tailscale"
)

// Store persists the node record.
type Store interface {
	Exists() bool
	Load() (*config.NodeConfig, error)
	Save(cfg *config.NodeConfig) error
	Delete() error
	Path() string
}

// KeyManager manages the shared private-network secret.
type KeyManager interface {
	Generate(path string) (string, error)
	Install(src, dst string) error
}

// Node is the external node binary's command surface.
type Node interface {
	Version(ctx context.Context) (string, error)
	InitRepo(ctx context.Context) error
	ApplyPlan(ctx context.Context, plan []kubo.ConfigCommand) error
	ID(ctx context.Context) (string, error)
	SwarmPeers(ctx context.Context) ([]string, error)
	Reachable(ctx context.Context) bool
	Add(ctx context.Context, path string) (string, error)
	Cat(ctx context.Context, cid string) (string, error)
	Shutdown(ctx context.Context) error
	StartDaemon() (int, error)
	RepoPath() string
}

// Overlay is the mesh overlay client's command surface.
type Overlay interface {
	// EnsureConnected may go interactive to authenticate; init uses it.
	EnsureConnected(ctx context.Context) (string, error)
	// Verify never goes interactive; start uses it.
	Verify(ctx context.Context) error
	Status(ctx context.Context) (tailscale.Status, error)
}

// Confirmer gates destructive operations. Non-interactive callers supply an
// implementation that answers from flags or scripts.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
