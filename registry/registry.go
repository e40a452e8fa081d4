// Package registry provides discovery of gstd daemon endpoints for
// deployments that run a fleet of pipeline hosts (one gstd per media box).
//
// Discovery is optional infrastructure around the client, not part of the
// control protocol: a Client always connects to one explicit host/port, and
// the registry is just how that address gets chosen.
package registry

// DaemonInstance describes one reachable gstd control endpoint.
type DaemonInstance struct {
	Addr    string // host:port of the gstd TCP control socket
	Version string // daemon version, if the registrar knows it
}

// Registry tracks the live set of daemon endpoints.
type Registry interface {
	// Register announces a daemon endpoint with a TTL in seconds. The entry
	// disappears automatically when its registrar stops renewing it.
	Register(instance DaemonInstance, ttl int64) error

	// Deregister removes a daemon endpoint.
	Deregister(addr string) error

	// Discover returns all currently registered daemon endpoints.
	Discover() ([]DaemonInstance, error)

	// Watch emits the full endpoint list whenever it changes.
	Watch() <-chan []DaemonInstance
}
