package backend

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/niceyeti/channerics"
	"go.uber.org/zap"

	"github.com/labs-lang/sliver/internal/trace"
)

// Trace is one simulated run: its decoded events and a sha1 digest over
// the backend's raw output (not over the rendered trace text), used to
// report how many distinct runs were observed
// (spec.md §4.8 "Simulation"), following nuxmv.py's simulate loop
// (hashlib.sha1 over each printed line).
type Trace struct {
	Index  int
	Events []trace.Event
	Digest string
	Err    error
}

// Simulate runs n independent invocations of adapter's SimulateCommand
// concurrently, fanning the per-iteration workers into a single channel
// with channerics.Merge, following
// _examples/niceyeti-tabular/reinforcement/learning.go's
// worker-channels-then-Merge shape.
func Simulate(ctx context.Context, adapter Adapter, fname string, s Settings, n int, logger *zap.Logger) <-chan Trace {
	done := ctx.Done()
	workers := make([]<-chan Trace, 0, n)
	for i := 0; i < n; i++ {
		workers = append(workers, simulateOnce(ctx, adapter, fname, s, i, logger))
	}
	return channerics.Merge(done, workers...)
}

func simulateOnce(ctx context.Context, adapter Adapter, fname string, s Settings, iteration int, logger *zap.Logger) <-chan Trace {
	out := make(chan Trace, 1)
	go func() {
		defer close(out)
		argv := adapter.SimulateCommand(fname, s, iteration)
		result, err := RunSubprocess(ctx, argv, time.Duration(s.Timeout)*time.Second, logger)
		if err != nil {
			out <- Trace{Index: iteration, Err: err}
			return
		}
		events := adapter.ParseTrace(result.Stdout)
		sum := sha1.Sum([]byte(result.Stdout))
		select {
		case out <- Trace{Index: iteration, Events: events, Digest: hex.EncodeToString(sum[:])}:
		case <-ctx.Done():
		}
	}()
	return out
}
