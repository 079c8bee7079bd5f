package raycoat

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/lukaszgryglicki/raycoat/internal/coating"
)

type sweepItem struct {
	idx int
	res *Result
	err error
}

// sweep traces every configured wavelength. Workers pull wavelengths from a
// shared queue; each owns its distribution, rays and coating copy, so
// nothing mutable crosses goroutines. Results keep the config order.
func sweep(cfg *Config, ct coating.Coating) ([]*Result, error) {
	n := len(cfg.Wavelengths)
	if n == 0 {
		return nil, nil
	}
	workers := Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = imax(1, imin(workers, n))

	tracers := make([]*tracer, workers)
	for w := range tracers {
		tr, err := newTracer(cfg, ct)
		if err != nil {
			return nil, err
		}
		tracers[w] = tr
	}
	DebugLogOnce("Sweep: %d workers over %d wavelengths, %s(%d) sampling",
		workers, n, cfg.Distribution.Type, cfg.Distribution.Num)

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	itemsCh := make(chan sweepItem, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(wid int, tr *tracer) {
			defer wg.Done()
			done := 0
			for i := range jobs {
				res, err := tr.traceWavelength(cfg.Wavelengths[i])
				itemsCh <- sweepItem{idx: i, res: res, err: err}
				done++
			}
			DebugLog("Worker #%d traced %d wavelengths", wid, done)
		}(w, tracers[w])
	}

	wg.Wait()
	close(itemsCh)

	results := make([]*Result, n)
	errIdx := -1
	var firstErr error
	for it := range itemsCh {
		if it.err != nil {
			// report the earliest wavelength in config order
			if errIdx < 0 || it.idx < errIdx {
				errIdx, firstErr = it.idx, it.err
			}
			continue
		}
		results[it.idx] = it.res
	}
	if firstErr != nil {
		return nil, fmt.Errorf("wavelength %g: %w", cfg.Wavelengths[errIdx], firstErr)
	}
	return results, nil
}
