// Package tailscale wraps the mesh overlay client's command-line surface:
// status query, bring-up, and address query.
package tailscale

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sherrors "github.com/hexaswarm/swarmctl/internal/shared/errors"
	"github.com/hexaswarm/swarmctl/internal/shared/logger"
	"github.com/hexaswarm/swarmctl/pkg/invoker"
)

// Status is the subset of `tailscale status --json` this tool reads.
type Status struct {
	BackendState string `json:"BackendState"`
	Self         struct {
		TailscaleIPs []string `json:"TailscaleIPs"`
		HostName     string   `json:"HostName"`
	} `json:"Self"`
}

// Connected reports whether the overlay backend is up.
func (s Status) Connected() bool {
	return s.BackendState == "Running"
}

// Client wraps the tailscale binary.
type Client struct {
	bin    string
	inv    invoker.Invoker
	logger *logger.Logger
}

// NewClient creates a tailscale client.
func NewClient(bin string, inv invoker.Invoker, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewDevelopment("tailscale")
	}

	return &Client{
		bin:    bin,
		inv:    inv,
		logger: log,
	}
}

// Status queries the overlay client's machine-readable state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	res, err := c.inv.Run(ctx, c.bin, "status", "--json")
	if err != nil {
		return Status{}, fmt.Errorf("failed to run %s status: %w", c.bin, err)
	}
	if !res.Ok() {
		return Status{}, sherrors.NewCommandError(c.bin, []string{"status", "--json"}, res.ExitCode, res.Stderr, nil)
	}

	var st Status
	if err := json.Unmarshal([]byte(res.Stdout), &st); err != nil {
		return Status{}, fmt.Errorf("failed to parse %s status output: %w", c.bin, err)
	}
	return st, nil
}

// Up brings the overlay connection up. The command may prompt the user for
// authentication, so it runs with inherited stdio.
func (c *Client) Up(ctx context.Context) error {
	c.logger.Info("bringing overlay connection up")
	if err := c.inv.RunInteractive(ctx, c.bin, "up"); err != nil {
		return fmt.Errorf("overlay bring-up failed: %w", err)
	}
	return nil
}

// IP returns the node's IPv4 overlay address.
func (c *Client) IP(ctx context.Context) (string, error) {
	res, err := c.inv.Run(ctx, c.bin, "ip", "-4")
	if err != nil {
		return "", fmt.Errorf("failed to run %s ip: %w", c.bin, err)
	}
	if !res.Ok() {
		return "", sherrors.NewCommandError(c.bin, []string{"ip", "-4"}, res.ExitCode, res.Stderr, nil)
	}

	ip := strings.TrimSpace(strings.SplitN(res.Stdout, "\n", 2)[0])
	if ip == "" {
		return "", fmt.Errorf("overlay client reported no address")
	}
	return ip, nil
}

// EnsureConnected verifies the overlay is connected, attempting a bring-up
// once if it is not, and returns the node's overlay address.
func (c *Client) EnsureConnected(ctx context.Context) (string, error) {
	st, err := c.Status(ctx)
	if err != nil || !st.Connected() {
		if err != nil {
			c.logger.Warn("overlay status query failed, attempting bring-up", "error", err)
		} else {
			c.logger.Info("overlay not connected, attempting bring-up", "state", st.BackendState)
		}

		if err := c.Up(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", sherrors.ErrOverlayNotConnected, err)
		}

		st, err = c.Status(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: status query failed after bring-up: %v", sherrors.ErrOverlayNotConnected, err)
		}
		if !st.Connected() {
			return "", fmt.Errorf("%w: backend state %s", sherrors.ErrOverlayNotConnected, st.BackendState)
		}
	}

	ip, err := c.IP(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sherrors.ErrOverlayNotConnected, err)
	}

	c.logger.Info("overlay connected", "address", ip)
	return ip, nil
}

// Verify checks connectivity without attempting a bring-up. Used by start,
// which must not drop into an interactive authentication flow.
func (c *Client) Verify(ctx context.Context) error {
	st, err := c.Status(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", sherrors.ErrOverlayNotConnected, err)
	}
	if !st.Connected() {
		return fmt.Errorf("%w: backend state %s", sherrors.ErrOverlayNotConnected, st.BackendState)
	}
	return nil
}
