package kubo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaswarm/swarmctl/pkg/invoker"
)

func newTestClient(fake *invoker.Fake) *Client {
	return NewClient("ipfs", "/data/ipfs", fake, nil)
}

func TestClient_InitRepo_AlreadyInitializedIsSuccess(t *testing.T) {
	fake := invoker.NewFake()
	fake.Stub("ipfs init", invoker.Result{
		ExitCode: 1,
		Stderr:   "Error: ipfs configuration file already exists!\n",
	}, nil)

	err := newTestClient(fake).InitRepo(context.Background())
	assert.NoError(t, err, "second init must be a no-op success")
}

func TestClient_InitRepo_RealFailure(t *testing.T) {
	fake := invoker.NewFake()
	fake.Stub("ipfs init", invoker.Result{
		ExitCode: 1,
		Stderr:   "Error: disk full\n",
	}, nil)

	err := newTestClient(fake).InitRepo(context.Background())
	assert.Error(t, err)
}

func TestClient_ID(t *testing.T) {
	fake := invoker.NewFake()
	fake.Stub("ipfs id", invoker.Result{ExitCode: 0, Stdout: "12D3KooWSelf\n"}, nil)

	id, err := newTestClient(fake).ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12D3KooWSelf", id)
}

func TestClient_SwarmPeers(t *testing.T) {
	fake := invoker.NewFake()
	fake.Stub("ipfs swarm peers", invoker.Result{
		ExitCode: 0,
		Stdout:   "/ip4/10.0.0.1/tcp/4001/p2p/QmA\n/ip4/10.0.0.2/tcp/4001/p2p/QmB\n",
	}, nil)

	client := newTestClient(fake)
	peers, err := client.SwarmPeers(context.Background())
	require.NoError(t, err)
	assert.Len(t, peers, 2)
	assert.True(t, client.Reachable(context.Background()))
}

func TestClient_ReachableFalseWhenDaemonDown(t *testing.T) {
	fake := invoker.NewFake()
	fake.Stub("ipfs swarm peers", invoker.Result{
		ExitCode: 1,
		Stderr:   "Error: this action must be run in online mode\n",
	}, nil)

	assert.False(t, newTestClient(fake).Reachable(context.Background()))
}

func TestClient_StartDaemonDetached(t *testing.T) {
	fake := invoker.NewFake()

	pid, err := newTestClient(fake).StartDaemon()
	require.NoError(t, err)
	assert.NotZero(t, pid)

	calls := fake.CallsMatching("ipfs daemon")
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Detached, "daemon must be launched detached")
}

func TestClient_AddAndCat(t *testing.T) {
	fake := invoker.NewFake()
	fake.Stub("ipfs add", invoker.Result{ExitCode: 0, Stdout: "QmContent\n"}, nil)
	fake.Stub("ipfs cat QmContent", invoker.Result{ExitCode: 0, Stdout: "hello swarm"}, nil)

	client := newTestClient(fake)

	cid, err := client.Add(context.Background(), "/tmp/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "QmContent", cid)

	data, err := client.Cat(context.Background(), cid)
	require.NoError(t, err)
	assert.Equal(t, "hello swarm", data)
}
