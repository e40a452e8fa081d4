package client

import (
	"net"
	"strconv"

	"github.com/wildhunter-66/gstd-1.x/loadbalance"
	"github.com/wildhunter-66/gstd-1.x/registry"
)

// NewDiscovered connects to a daemon picked from a registry instead of an
// explicit host/port. Selection happens once, here: the resulting client is
// pinned to the chosen daemon for its whole lifetime.
func NewDiscovered(reg registry.Registry, bal loadbalance.Balancer, opts ...Option) (*Client, error) {
	instances, err := reg.Discover()
	if err != nil {
		return nil, &InternalError{Op: "discover", Cause: err}
	}
	instance, err := bal.Pick(instances)
	if err != nil {
		return nil, &InternalError{Op: "discover", Cause: err}
	}

	host, portStr, err := net.SplitHostPort(instance.Addr)
	if err != nil {
		return nil, &InternalError{Op: "discover", Cause: err}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, &InternalError{Op: "discover", Cause: err}
	}
	return New(host, port, opts...)
}
