// etcd-backed Registry implementation.
//
// Layout:
//
//	Key:   /gstc/daemons/{addr}
//	Value: JSON-encoded DaemonInstance
//
// Entries are held by TTL leases: a media box that dies stops renewing its
// lease and its daemon entry expires on its own, so clients never discover a
// ghost endpoint.
package registry

import (
	"context"
	"encoding/json"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/gstc/daemons/"

// EtcdRegistry implements Registry on top of etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c}, nil
}

// Register stores the instance under a TTL lease and keeps the lease alive in
// the background until the registry client is closed.
func (r *EtcdRegistry) Register(instance DaemonInstance, ttl int64) error {
	ctx := context.TODO()

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, keyPrefix+instance.Addr, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	// Drain renewal acks so the channel never fills up.
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes the endpoint immediately instead of waiting for its
// lease to lapse.
func (r *EtcdRegistry) Deregister(addr string) error {
	_, err := r.client.Delete(context.TODO(), keyPrefix+addr)
	return err
}

// Discover lists every registered daemon endpoint.
func (r *EtcdRegistry) Discover() ([]DaemonInstance, error) {
	resp, err := r.client.Get(context.TODO(), keyPrefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]DaemonInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance DaemonInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue // skip malformed entries
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// Watch re-reads the whole endpoint set on every change under the prefix and
// pushes it to the returned channel.
func (r *EtcdRegistry) Watch() <-chan []DaemonInstance {
	ch := make(chan []DaemonInstance, 1)
	go func() {
		watchChan := r.client.Watch(context.TODO(), keyPrefix, clientv3.WithPrefix())
		for range watchChan {
			instances, err := r.Discover()
			if err != nil {
				continue
			}
			ch <- instances
		}
	}()
	return ch
}

// Close releases the underlying etcd client.
func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}
