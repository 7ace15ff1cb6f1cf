package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.json")
	store := NewStore(path)

	require.False(t, store.Exists())

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, RoleBootstrap, cfg.Role)
	assert.Equal(t, ModeDirect, cfg.NetworkMode)
	assert.Equal(t, 4001, cfg.BasePort)
	assert.Empty(t, cfg.NodeID)

	// Load is a side-effecting read: the default record must now be on disk
	require.True(t, store.Exists())
}

func TestStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	cfg := &NodeConfig{
		Role:          RoleRegular,
		NetworkMode:   ModeMesh,
		BasePort:      4101,
		SwarmKeyPath:  "/keys/swarm.key",
		BootstrapPeer: "/ip4/100.64.0.1/tcp/4001/p2p/QmBoot",
		NodeID:        "QmSelf",
		OverlayAddr:   "100.64.0.7",
		LastStartedAt: &started,
	}
	require.NoError(t, store.Save(cfg))
	assert.False(t, cfg.UpdatedAt.IsZero(), "Save should stamp UpdatedAt")

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, cfg.Role, loaded.Role)
	assert.Equal(t, cfg.NetworkMode, loaded.NetworkMode)
	assert.Equal(t, cfg.BasePort, loaded.BasePort)
	assert.Equal(t, cfg.BootstrapPeer, loaded.BootstrapPeer)
	assert.Equal(t, cfg.NodeID, loaded.NodeID)
	assert.Equal(t, cfg.OverlayAddr, loaded.OverlayAddr)
	require.NotNil(t, loaded.LastStartedAt)
	assert.True(t, loaded.LastStartedAt.Equal(started))
}

func TestStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	_, err := store.Load()
	require.NoError(t, err)
	require.True(t, store.Exists())

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())

	// Deleting a missing record is success
	assert.NoError(t, store.Delete())
}

func TestStore_LoadCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStore(path)
	_, err := store.Load()
	assert.Error(t, err)
}
