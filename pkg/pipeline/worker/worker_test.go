package worker_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/palantir/alphabet-reverser/pkg/pipeline/core"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/worker"
	"github.com/palantir/alphabet-reverser/pkg/reverse"
)

func reverseFn(_ context.Context, in string) (string, error) {
	return reverse.String(in), nil
}

func TestProcessAll_KeepsInputOrder(t *testing.T) {
	t.Parallel()

	in := []string{"abc", "hello", "", "a", "aabb", "xyz"}
	out, err := worker.ProcessAll(context.Background(), in, reverseFn, worker.Options{Workers: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d outputs, got %d", len(in), len(out))
	}

	want := []string{"cba", "olleh", "", "a", "bbaa", "zyx"}
	for i, res := range out {
		if res.Index != i || res.Input != in[i] || res.Output != want[i] || res.Err != nil {
			t.Fatalf("unexpected out[%d]: %#v", i, res)
		}
	}
}

func TestProcessAll_Empty(t *testing.T) {
	t.Parallel()

	out, err := worker.ProcessAll(context.Background(), nil, reverseFn, worker.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no outputs, got %#v", out)
	}
}

func TestProcessAll_FailFastStops(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var calls atomic.Int32

	fn := func(_ context.Context, in string) (string, error) {
		calls.Add(1)
		if in == "bad" {
			return "", boom
		}
		t.Errorf("unexpected call for %q", in)
		return "", nil
	}

	out, err := worker.ProcessAll(context.Background(), []string{"bad", "good"}, fn, worker.Options{
		Workers:       1,
		FailurePolicy: worker.FailurePolicyFailFast,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	var itemErr *core.ItemError
	if !errors.As(err, &itemErr) || itemErr.Index != 0 {
		t.Fatalf("expected ItemError for index 0, got %#v", err)
	}
	if out != nil {
		t.Fatalf("expected nil output on fail-fast, got %#v", out)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestProcessAll_PartialOutputContinues(t *testing.T) {
	t.Parallel()

	fn := func(_ context.Context, in string) (string, error) {
		if in == "bad" {
			return "", errors.New("boom")
		}
		return reverse.String(in), nil
	}

	out, err := worker.ProcessAll(context.Background(), []string{"bad", "good"}, fn, worker.Options{
		Workers:       1,
		FailurePolicy: worker.FailurePolicyPartialOutput,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(out))
	}
	if out[0].Err == nil || out[0].Err.Error() != "item 0: boom" {
		t.Fatalf("unexpected out[0]: %#v", out[0])
	}
	if out[1].Err != nil || out[1].Output != "doog" {
		t.Fatalf("unexpected out[1]: %#v", out[1])
	}
}

func TestProcessAll_ItemTimeout(t *testing.T) {
	t.Parallel()

	fn := func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	out, err := worker.ProcessAll(context.Background(), []string{"slow"}, fn, worker.Options{
		Workers:     1,
		ItemTimeout: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(out[0].Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", out[0].Err)
	}
}

func TestProcessAll_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := worker.ProcessAll(ctx, []string{"a", "b"}, reverseFn, worker.Options{Workers: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestProcessAll_RateLimit(t *testing.T) {
	t.Parallel()

	start := time.Now()
	out, err := worker.ProcessAll(context.Background(), []string{"a", "b", "c"}, reverseFn, worker.Options{
		Workers:      3,
		RateLimitRPS: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(out))
	}
	// Burst of 1 at 50rps: the third item waits at least ~40ms.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("expected rate limiting, run took %s", elapsed)
	}
}

func TestProcessAllWithCallback_CompletesInCompletionOrder(t *testing.T) {
	t.Parallel()

	releaseSlow := make(chan struct{})
	startedSlow := make(chan struct{})
	var firstCallbackInput atomic.Value
	firstCallbackInput.Store("")

	fn := func(_ context.Context, in string) (string, error) {
		if in == "slow" {
			close(startedSlow)
			<-releaseSlow
		}
		return reverse.String(in), nil
	}

	var mu sync.Mutex
	var seen []string
	doneErr := make(chan error, 1)
	go func() {
		_, err := worker.ProcessAllWithCallback(
			context.Background(),
			[]string{"slow", "fast"},
			fn,
			func(res worker.Result[string, string]) error {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, res.Input)
				if len(seen) == 1 {
					firstCallbackInput.Store(res.Input)
				}
				return nil
			},
			worker.Options{Workers: 2},
		)
		doneErr <- err
	}()

	select {
	case <-startedSlow:
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for slow task to start")
	}

	deadline := time.Now().Add(1 * time.Second)
	for time.Now().Before(deadline) {
		if firstCallbackInput.Load().(string) == "fast" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := firstCallbackInput.Load().(string); got != "fast" {
		t.Fatalf("expected fast callback first, got %q", got)
	}

	close(releaseSlow)
	select {
	case err := <-doneErr:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for completion")
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(seen, []string{"fast", "slow"}) {
		t.Fatalf("unexpected callback order: %v", seen)
	}
}

func TestProcessAllWithCallback_CallbackErrorStopsRun(t *testing.T) {
	t.Parallel()

	callbackErr := errors.New("callback failed")
	_, err := worker.ProcessAllWithCallback(
		context.Background(),
		[]string{"abc"},
		reverseFn,
		func(worker.Result[string, string]) error {
			return callbackErr
		},
		worker.Options{Workers: 1},
	)
	if !errors.Is(err, callbackErr) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestProcessFuncAdapter(t *testing.T) {
	t.Parallel()

	p := core.ProcessFunc[string, string](reverseFn)
	out, err := worker.ProcessAll(context.Background(), []string{"hello"}, p.Process, worker.Options{Workers: 1})
	if err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}
	if out[0].Output != "olleh" {
		t.Fatalf("unexpected output: %#v", out)
	}
}
