package loadbalance

import (
	"errors"
	"sync/atomic"

	"github.com/wildhunter-66/gstd-1.x/registry"
)

// ErrNoInstances is returned when discovery produced an empty endpoint set.
var ErrNoInstances = errors.New("no daemon instances available")

// RoundRobin cycles through the instance list with an atomic counter.
type RoundRobin struct {
	counter atomic.Int64
}

// Pick selects the next instance in rotation.
func (b *RoundRobin) Pick(instances []registry.DaemonInstance) (*registry.DaemonInstance, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}
	index := b.counter.Add(1) % int64(len(instances))
	return &instances[index], nil
}

func (b *RoundRobin) Name() string {
	return "RoundRobin"
}
