package kubo

import (
	"context"
	"fmt"

	"github.com/hexaswarm/swarmctl/internal/swarm/config"
)

// ConfigCommand is one configuration command to issue against the node
// binary.
type ConfigCommand struct {
	Args []string
}

func (c ConfigCommand) String() string {
	s := ""
	for i, a := range c.Args {
		if i > 0 {
			s += " "
		}
		s += a
	}
	return s
}

// ConfigPlan derives the ordered configuration commands for a node record.
// Pure function: same record, same plan. The plan always strips the public
// default bootstrap peers, and only a regular node gets a bootstrap entry —
// exactly one, its swarm's bootstrap node.
func ConfigPlan(cfg *config.NodeConfig) []ConfigCommand {
	swarmAddrs := fmt.Sprintf(`["/ip4/0.0.0.0/tcp/%d","/ip6/::/tcp/%d"]`, cfg.BasePort, cfg.BasePort)

	plan := []ConfigCommand{
		{Args: []string{"config", "--json", "Discovery.MDNS.Enabled", "false"}},
		{Args: []string{"config", "Routing.Type", "dht"}},
		{Args: []string{"config", "--json", "Addresses.Swarm", swarmAddrs}},
		{Args: []string{"config", "Addresses.API", fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", cfg.APIPort())}},
		{Args: []string{"config", "Addresses.Gateway", fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", cfg.GatewayPort())}},
		{Args: []string{"bootstrap", "rm", "--all"}},
	}

	if cfg.Role == config.RoleRegular {
		plan = append(plan, ConfigCommand{Args: []string{"bootstrap", "add", cfg.BootstrapPeer}})
	}

	return plan
}

// ApplyPlan issues each command in order, fail-fast: partial network
// configuration is worse than none, so the first failure aborts the rest.
func (c *Client) ApplyPlan(ctx context.Context, plan []ConfigCommand) error {
	for _, cmd := range plan {
		if _, err := c.run(ctx, cmd.Args...); err != nil {
			return fmt.Errorf("configuration command %q failed: %w", cmd.String(), err)
		}
		c.logger.Debug("applied configuration command", "cmd", cmd.String())
	}
	return nil
}
