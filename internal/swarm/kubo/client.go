// Package kubo drives the node binary through its command-line surface.
// All real networking and storage happens inside the daemon; this package
// only issues commands and interprets their output.
package kubo

import (
	"context"
	"fmt"
	"strings"

	sherrors "github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/pkg/invoker"
)

// Client wraps the ipfs binary.
type Client struct {
	bin      string
	repoPath string
	inv      invoker.Invoker
	logger   *logger.Logger
}

// NewClient creates a client for the ipfs binary at bin, operating on the
// repo at repoPath.
func NewClient(bin, repoPath string, inv invoker.Invoker, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewDevelopment("kubo")
	}

	return &Client{
		bin:      bin,
		repoPath: repoPath,
		inv:      inv,
		logger:   log,
	}
}

// RepoPath returns the node's data directory.
func (c *Client) RepoPath() string {
	return c.repoPath
}

// run executes one ipfs subcommand with the repo env set and converts a
// non-zero exit into a CommandError.
func (c *Client) run(ctx context.Context, args ...string) (invoker.Result, error) {
	res, err := c.inv.Run(ctx, c.bin, args...)
	if err != nil {
		return res, fmt.Errorf("failed to run %s: %w", c.bin, err)
	}
	if !res.Ok() {
		return res, sherrors.NewCommandError(c.bin, args, res.ExitCode, res.Stderr, nil)
	}
	return res, nil
}

// Version returns the node binary's version number.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "version", "--number")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// InitRepo performs the one-time repo initialization. A repo that already
// exists is a no-op success, which keeps init re-runnable.
func (c *Client) InitRepo(ctx context.Context) error {
	res, err := c.inv.Run(ctx, c.bin, "init")
	if err != nil {
		return fmt.Errorf("failed to run %s init: %w", c.bin, err)
	}
	if !res.Ok() {
		if strings.Contains(res.Stderr, "already") {
			c.logger.Debug("repo already initialized", "path", c.repoPath)
			return nil
		}
		return sherrors.NewCommandError(c.bin, []string{"init"}, res.ExitCode, res.Stderr, nil)
	}

	c.logger.Info("initialized node repo", "path", c.repoPath)
	return nil
}

// ConfigSet sets a string-valued configuration key.
func (c *Client) ConfigSet(ctx context.Context, key, value string) error {
	_, err := c.run(ctx, "config", key, value)
	return err
}

// ConfigSetJSON sets a configuration key to a JSON-encoded value.
func (c *Client) ConfigSetJSON(ctx context.Context, key, jsonValue string) error {
	_, err := c.run(ctx, "config", "--json", key, jsonValue)
	return err
}

// BootstrapRmAll clears the bootstrap peer list. A private swarm must not
// retain the public default peers.
func (c *Client) BootstrapRmAll(ctx context.Context) error {
	_, err := c.run(ctx, "bootstrap", "rm", "--all")
	return err
}

// BootstrapAdd registers a bootstrap peer.
func (c *Client) BootstrapAdd(ctx context.Context, addr string) error {
	_, err := c.run(ctx, "bootstrap", "add", addr)
	return err
}

// ID queries the daemon-independent node identity.
func (c *Client) ID(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "id", "-f=<id>")
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(res.Stdout)
	if id == "" {
		return "", fmt.Errorf("node identity query returned empty output")
	}
	return id, nil
}

// SwarmPeers returns the currently connected peers. An error means the
// control channel is unreachable, i.e. the daemon is not running.
func (c *Client) SwarmPeers(ctx context.Context) ([]string, error) {
	res, err := c.run(ctx, "swarm", "peers")
	if err != nil {
		return nil, err
	}

	var peers []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			peers = append(peers, line)
		}
	}
	return peers, nil
}

// Reachable reports whether the daemon answers on its control channel.
// This is the daemon probe: no distinction is made between "crashed" and
// "never started".
func (c *Client) Reachable(ctx context.Context) bool {
	_, err := c.SwarmPeers(ctx)
	return err == nil
}

// Add stores a file and returns its content identifier.
func (c *Client) Add(ctx context.Context, path string) (string, error) {
	res, err := c.run(ctx, "add", "-Q", path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Cat retrieves content by identifier.
func (c *Client) Cat(ctx context.Context, cid string) (string, error) {
	res, err := c.run(ctx, "cat", cid)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Shutdown asks a running daemon to exit through its own control channel.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.run(ctx, "shutdown")
	return err
}

// StartDaemon launches the daemon detached from this process. The daemon
// refuses to start a private network without force-pnet set, so a missing
// swarm key fails loudly instead of silently joining the public network.
func (c *Client) StartDaemon() (int, error) {
	env := []string{
		"IPFS_PATH=" + c.repoPath,
		"LIBP2P_FORCE_PNET=1",
	}
	pid, err := c.inv.Start(c.bin, env, "daemon", "--enable-gc")
	if err != nil {
		return 0, fmt.Errorf("failed to launch daemon: %w", err)
	}

	c.logger.Info("daemon launched", "pid", pid)
	return pid, nil
}
