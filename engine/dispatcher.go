package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/geolens/metrics"
)

// Dispatcher coordinates multi-engine racing with staged escalation.
// It starts the fastest engine first and progressively escalates to heavier
// engines if earlier ones fail or take too long. It keeps no state between
// calls.
type Dispatcher struct {
	engines          []Engine
	escalationDelays []time.Duration
}

// NewDispatcher creates a Dispatcher with the given engines and escalation delays.
// engines[i] starts after escalationDelays[i] from the race beginning; engines
// without a delay of their own reuse the last one given.
func NewDispatcher(engines []Engine, escalationDelays []time.Duration) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	n := copy(delays, escalationDelays)
	if n > 0 {
		for i := n; i < len(delays); i++ {
			delays[i] = escalationDelays[n-1]
		}
	}
	return &Dispatcher{
		engines:          engines,
		escalationDelays: delays,
	}
}

// Dispatch runs the race for req and returns the first successful result.
// An engine failure starts the next tier immediately instead of waiting for
// its delay. If all engines fail, the last error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 0 {
		return nil, fmt.Errorf("dispatcher: no engines configured")
	}

	type raceResult struct {
		result *FetchResult
		err    error
	}

	raceCtx, raceCancel := context.WithCancel(ctx)
	defer raceCancel()

	results := make(chan raceResult, len(d.engines))
	// escalate[i] is closed when engine i-1 fails, releasing engine i early.
	escalate := make([]chan struct{}, len(d.engines))
	for i := range escalate {
		escalate[i] = make(chan struct{})
	}
	var wg sync.WaitGroup

	for i, eng := range d.engines {
		wg.Add(1)
		go func(i int, e Engine, delay time.Duration) {
			defer wg.Done()

			if delay > 0 {
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-raceCtx.Done():
					return
				case <-escalate[i]:
				case <-timer.C:
				}
			}

			select {
			case <-raceCtx.Done():
				return
			default:
			}

			slog.Debug("engine starting", "engine", e.Name(), "url", req.URL)
			result, err := e.Fetch(raceCtx, req)
			if err != nil {
				slog.Debug("engine failed", "engine", e.Name(), "url", req.URL, "error", err)
				if i+1 < len(escalate) {
					close(escalate[i+1])
				}
			}
			results <- raceResult{result: result, err: err}
		}(i, eng, d.escalationDelays[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var lastErr error
	for rr := range results {
		if rr.err != nil {
			lastErr = rr.err
			continue
		}
		raceCancel()
		metrics.EngineWins.WithLabelValues(rr.result.EngineName).Inc()
		slog.Info("engine won race", "engine", rr.result.EngineName, "url", req.URL)
		return rr.result, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("dispatcher: all engines failed for %s", req.URL)
		if ctx.Err() != nil {
			lastErr = ctx.Err()
		}
	}
	return nil, lastErr
}
