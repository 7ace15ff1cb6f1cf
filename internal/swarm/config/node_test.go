package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaswarm/swarmctl/internal/shared/errors"
)

func TestNodeConfig_DerivedPorts(t *testing.T) {
	for _, base := range []int{1025, 4001, 9000, 61454} {
		cfg := &NodeConfig{BasePort: base}
		assert.Equal(t, base+1000, cfg.APIPort(), "api port for base %d", base)
		assert.Equal(t, base+4080, cfg.GatewayPort(), "gateway port for base %d", base)
	}
}

func TestNodeConfig_Validate_Bootstrap(t *testing.T) {
	cfg := DefaultNodeConfig()
	require.NoError(t, cfg.Validate())

	cfg.BasePort = 80
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNodeConfig_Validate_RegularRequiresKey(t *testing.T) {
	cfg := &NodeConfig{
		Role:          RoleRegular,
		NetworkMode:   ModeDirect,
		BasePort:      4001,
		BootstrapPeer: "/ip4/10.0.0.1/tcp/4001/p2p/ABC123",
	}

	err := cfg.Validate()
	require.Error(t, err, "missing swarm key path must fail")
	assert.True(t, errors.IsValidation(err))

	cfg.SwarmKeyPath = filepath.Join(t.TempDir(), "missing.key")
	err = cfg.Validate()
	require.Error(t, err, "non-existent swarm key must fail")
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, os.WriteFile(cfg.SwarmKeyPath, []byte("key"), 0o600))
	assert.NoError(t, cfg.Validate())
}

func TestNodeConfig_Validate_RegularRequiresBootstrapAddr(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "swarm.key")
	require.NoError(t, os.WriteFile(keyPath, []byte("key"), 0o600))

	cfg := &NodeConfig{
		Role:         RoleRegular,
		NetworkMode:  ModeDirect,
		BasePort:     4001,
		SwarmKeyPath: keyPath,
	}

	err := cfg.Validate()
	require.Error(t, err, "missing bootstrap addr must fail")

	cfg.BootstrapPeer = "/ip4/10.0.0.1/tcp/4001"
	err = cfg.Validate()
	require.Error(t, err, "bootstrap addr without peer identity must fail")
	assert.True(t, errors.IsValidation(err))

	cfg.BootstrapPeer = "/ip4/10.0.0.1/tcp/4001/p2p/ABC123"
	assert.NoError(t, cfg.Validate())
}

func TestValidateBootstrapAddr(t *testing.T) {
	tests := []struct {
		addr string
		ok   bool
	}{
		{"/ip4/10.0.0.1/tcp/4001/p2p/ABC123", true},
		{"/ip6/fd7a::1/tcp/4001/p2p/12D3KooWQYhTNQdmr3ArTeUHRYzFg94BKyTkoWBDWez9kSCVe2Xo", true},
		{"/dns4/boot.example.com/tcp/4001/p2p/QmNodeID", true},
		{"/ip4/10.0.0.1/tcp/4001", false},
		{"/ip4/10.0.0.1/tcp/4001/p2p/", false},
		{"not-a-multiaddr", false},
		{"/ip4/999.0.0.1/tcp/4001/p2p/ABC123", false},
		{"", false},
	}

	for _, tc := range tests {
		err := ValidateBootstrapAddr(tc.addr)
		if tc.ok {
			assert.NoError(t, err, "addr %q", tc.addr)
		} else {
			assert.Error(t, err, "addr %q", tc.addr)
		}
	}
}

func TestNodeConfig_SameTopology(t *testing.T) {
	a := &NodeConfig{Role: RoleBootstrap, NetworkMode: ModeDirect}
	b := &NodeConfig{Role: RoleBootstrap, NetworkMode: ModeDirect, BasePort: 5001}
	assert.True(t, a.SameTopology(b), "port changes do not change topology")

	b.Role = RoleRegular
	assert.False(t, a.SameTopology(b))

	b.Role = RoleBootstrap
	b.NetworkMode = ModeMesh
	assert.False(t, a.SameTopology(b))
}
