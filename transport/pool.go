// Pool hands out Transports to one daemon endpoint on an exclusive
// borrow/return basis.
//
// Because each Transport carries at most one exchange at a time, callers that
// mix long-blocking waits with normal commands need more than one connection.
// The pool is the bookkeeping for that: borrow a Transport for the blocking
// wait, keep issuing commands on another, return both when done.
//
// The pool is a buffered channel used as a FIFO of idle transports; blocking
// on an empty pool at capacity comes for free.
package transport

import (
	"fmt"
	"sync"
)

// Pool manages up to max concurrently borrowed Transports to one endpoint.
type Pool struct {
	idle chan *Transport
	dial func() (*Transport, error)

	mu  sync.Mutex
	cur int
	max int
}

// NewPool creates an empty pool for the given daemon endpoint. Connections
// are dialed lazily, on the first Get that finds the pool empty.
func NewPool(host string, port int, max int) *Pool {
	return &Pool{
		idle: make(chan *Transport, max),
		max:  max,
		dial: func() (*Transport, error) { return Dial(host, port) },
	}
}

// Get borrows a Transport. If an idle one is available it is reused; below
// capacity a new connection is dialed; at capacity Get blocks until a
// Transport is returned. Transports that broke while idle are replaced.
func (p *Pool) Get() (*Transport, error) {
	select {
	case tr := <-p.idle:
		if tr.Broken() {
			p.forget(tr)
			return p.dialNew()
		}
		return tr, nil
	default:
		p.mu.Lock()
		below := p.cur < p.max
		p.mu.Unlock()
		if below {
			return p.dialNew()
		}
		tr := <-p.idle
		if tr.Broken() {
			p.forget(tr)
			return p.dialNew()
		}
		return tr, nil
	}
}

// Put returns a borrowed Transport. Broken transports are discarded so the
// next Get dials a replacement.
func (p *Pool) Put(tr *Transport) {
	if tr.Broken() {
		p.forget(tr)
		return
	}
	p.idle <- tr
}

// Close shuts down every idle Transport. Borrowed transports are the
// borrower's to close.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	close(p.idle)
	for tr := range p.idle {
		tr.Close()
		p.cur--
	}
	return nil
}

func (p *Pool) forget(tr *Transport) {
	tr.Close()
	p.mu.Lock()
	p.cur--
	p.mu.Unlock()
}

func (p *Pool) dialNew() (*Transport, error) {
	p.mu.Lock()
	if p.cur >= p.max {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: pool exhausted", ErrConnection)
	}
	p.cur++
	p.mu.Unlock()

	tr, err := p.dial()
	if err != nil {
		p.mu.Lock()
		p.cur--
		p.mu.Unlock()
		return nil, err
	}
	return tr, nil
}
