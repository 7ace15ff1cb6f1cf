package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/hexaswarm/swarmctl/internal/shared/errors"
)

// Role describes how this node participates in the swarm.
type Role string

const (
	// RoleBootstrap originates the swarm key and is the initial peer
	// discovery contact for everyone else.
	RoleBootstrap Role = "bootstrap"
	// RoleRegular joins an existing swarm with an imported key.
	RoleRegular Role = "regular"
)

// NetworkMode selects which address family the node advertises.
type NetworkMode string

const (
	// ModeDirect uses whatever addresses the host already has.
	ModeDirect NetworkMode = "direct"
	// ModeMesh routes peers over the tailscale overlay.
	ModeMesh NetworkMode = "mesh"
)

// Port offsets relative to BasePort. The API and gateway always listen on
// loopback on the derived ports.
const (
	APIPortOffset     = 1000
	GatewayPortOffset = 4080
)

// NodeConfig is the persisted record describing this installation. One
// record exists per node; it is written after init and updated on every
// successful daemon start.
type NodeConfig struct {
	Role          Role        `json:"role"`
	NetworkMode   NetworkMode `json:"network_mode"`
	BasePort      int         `json:"base_port"`
	SwarmKeyPath  string      `json:"swarm_key_path,omitempty"`
	BootstrapPeer string      `json:"bootstrap_peer,omitempty"`
	NodeID        string      `json:"node_id,omitempty"`
	OverlayAddr   string      `json:"overlay_addr,omitempty"`
	LastStartedAt *time.Time  `json:"last_started_at,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// DefaultNodeConfig returns the record created on first load.
func DefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		Role:        RoleBootstrap,
		NetworkMode: ModeDirect,
		BasePort:    4001,
	}
}

// APIPort returns the port the node's API listens on.
func (c *NodeConfig) APIPort() int {
	return c.BasePort + APIPortOffset
}

// GatewayPort returns the port the node's HTTP gateway listens on.
func (c *NodeConfig) GatewayPort() int {
	return c.BasePort + GatewayPortOffset
}

// Validate checks the record before any step mutates the system. Regular
// nodes must bring a readable swarm key and a bootstrap peer address that
// carries a peer identity.
func (c *NodeConfig) Validate() error {
	switch c.Role {
	case RoleBootstrap, RoleRegular:
	default:
		return errors.NewValidationError("role", fmt.Sprintf("unknown role %q", c.Role))
	}

	switch c.NetworkMode {
	case ModeDirect, ModeMesh:
	default:
		return errors.NewValidationError("network_mode", fmt.Sprintf("unknown network mode %q", c.NetworkMode))
	}

	if c.BasePort < 1025 || c.BasePort > 65534 {
		return errors.NewValidationError("port", fmt.Sprintf("base port %d outside 1025-65534", c.BasePort))
	}

	if c.Role == RoleRegular {
		if c.SwarmKeyPath == "" {
			return errors.NewValidationError("swarm-key", "regular nodes require --swarm-key")
		}
		if _, err := os.Stat(c.SwarmKeyPath); err != nil {
			return errors.NewValidationError("swarm-key", fmt.Sprintf("swarm key not readable at %s: %v", c.SwarmKeyPath, err))
		}
		if c.BootstrapPeer == "" {
			return errors.NewValidationError("bootstrap-addr", "regular nodes require --bootstrap-addr")
		}
		if err := ValidateBootstrapAddr(c.BootstrapPeer); err != nil {
			return err
		}
	}

	return nil
}

// ValidateBootstrapAddr checks that addr is a multiaddr ending in a peer
// identity (/p2p/<id>) segment. The transport prefix must parse as a
// multiaddr; the identity segment only has to be present and non-empty,
// since the daemon is the authority on peer id encoding.
func ValidateBootstrapAddr(addr string) error {
	idx := strings.LastIndex(addr, "/p2p/")
	if idx < 0 {
		return errors.NewValidationError("bootstrap-addr", "multiaddr is missing a /p2p peer identity segment")
	}

	peerID := addr[idx+len("/p2p/"):]
	if peerID == "" || strings.Contains(peerID, "/") {
		return errors.NewValidationError("bootstrap-addr", "empty or malformed peer identity segment")
	}

	prefix := addr[:idx]
	if _, err := ma.NewMultiaddr(prefix); err != nil {
		return errors.NewValidationError("bootstrap-addr", fmt.Sprintf("not a valid multiaddr: %v", err))
	}
	return nil
}

// SameTopology reports whether two records agree on role and network mode.
// Changing either on an initialized node requires --force.
func (c *NodeConfig) SameTopology(other *NodeConfig) bool {
	return c.Role == other.Role && c.NetworkMode == other.NetworkMode
}
