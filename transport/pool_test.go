package transport

import (
	"testing"
	"time"
)

func TestPoolBorrowReturn(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte { return []byte("{}") })

	p := NewPool(host, port, 2)
	defer p.Close()

	a, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("pool handed out the same transport twice")
	}

	// Both borrowed transports work independently.
	for _, tr := range []*Transport{a, b} {
		if _, err := tr.SendAndReceive([]byte("list_pipelines"), time.Second); err != nil {
			t.Fatalf("borrowed transport failed: %v", err)
		}
	}

	p.Put(a)
	c, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}
	if c != a {
		t.Error("expected the returned transport to be reused")
	}
	p.Put(b)
	p.Put(c)
}

func TestPoolBlocksAtCapacity(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte { return []byte("{}") })

	p := NewPool(host, port, 1)
	defer p.Close()

	a, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}

	acquired := make(chan *Transport)
	go func() {
		tr, err := p.Get()
		if err != nil {
			t.Error(err)
		}
		acquired <- tr
	}()

	select {
	case <-acquired:
		t.Fatal("Get returned while the pool was exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	p.Put(a)
	select {
	case tr := <-acquired:
		p.Put(tr)
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Put")
	}
}

func TestPoolReplacesBrokenTransport(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte { return nil })

	p := NewPool(host, port, 1)
	defer p.Close()

	a, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}
	// Break it with a timed-out exchange, then hand it back.
	if _, err := a.SendAndReceive([]byte("bus_read p0"), 20*time.Millisecond); err == nil {
		t.Fatal("expected the exchange to time out")
	}
	p.Put(a)

	b, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Put(b)
	if b == a {
		t.Error("pool returned a broken transport instead of replacing it")
	}
	if b.Broken() {
		t.Error("replacement transport is broken")
	}
}
