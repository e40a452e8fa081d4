// Package loadbalance selects one daemon endpoint from a discovered set.
//
// A control connection is long-lived and pinned to one daemon, so selection
// happens once per client, not per command. Round-robin spreads monitoring
// clients evenly over a fleet of equivalent pipeline hosts.
package loadbalance

import "github.com/wildhunter-66/gstd-1.x/registry"

// Balancer picks the daemon endpoint a new client should connect to.
// Implementations must be goroutine-safe.
type Balancer interface {
	Pick(instances []registry.DaemonInstance) (*registry.DaemonInstance, error)

	// Name identifies the strategy in logs.
	Name() string
}
