package middleware

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wildhunter-66/gstd-1.x/message"
)

func okHandler(trace *[]string, name string) HandlerFunc {
	return func(ctx context.Context, cmd *message.Command) (*message.Response, error) {
		*trace = append(*trace, name)
		return &message.Response{Code: 0, Description: "Success"}, nil
	}
}

func tracing(trace *[]string, name string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd *message.Command) (*message.Response, error) {
			*trace = append(*trace, name+">")
			resp, err := next(ctx, cmd)
			*trace = append(*trace, "<"+name)
			return resp, err
		}
	}
}

func TestChainOrder(t *testing.T) {
	var trace []string
	h := Chain(tracing(&trace, "a"), tracing(&trace, "b"))(okHandler(&trace, "handler"))

	_, err := h(context.Background(), message.NewCommand("list_pipelines"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a>", "b>", "handler", "<b", "<a"}
	if len(trace) != len(want) {
		t.Fatalf("trace mismatch: %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace mismatch at %d: %v", i, trace)
		}
	}
}

func TestChainEmpty(t *testing.T) {
	var trace []string
	h := Chain()(okHandler(&trace, "handler"))
	resp, err := h(context.Background(), message.NewCommand("list_pipelines"))
	if err != nil || resp.Code != 0 {
		t.Fatalf("unexpected result: %v %v", resp, err)
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	var trace []string
	h := Logging(zap.NewNop())(okHandler(&trace, "handler"))

	resp, err := h(context.Background(), message.NewCommand("pipeline_play", "p0"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Code != 0 {
		t.Errorf("response altered by logging middleware: %+v", resp)
	}
	if len(trace) != 1 {
		t.Errorf("handler not invoked exactly once: %v", trace)
	}
}

func TestRateLimitPacesCalls(t *testing.T) {
	var trace []string
	// 20 per second, burst 1: the second call must wait ~50ms.
	h := RateLimit(20, 1)(okHandler(&trace, "handler"))

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := h(context.Background(), message.NewCommand("bus_read", "p0")); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("second call was not paced: elapsed %v", elapsed)
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	h := RateLimit(1, 1)(func(ctx context.Context, cmd *message.Command) (*message.Response, error) {
		return &message.Response{}, nil
	})

	// Exhaust the burst, then call with an already-expired context.
	if _, err := h(context.Background(), message.NewCommand("bus_read", "p0")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if _, err := h(ctx, message.NewCommand("bus_read", "p0")); err == nil {
		t.Error("expected a context error from the paced call")
	}
}
