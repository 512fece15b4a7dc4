// Package utils contains small helpers shared across lodvec packages.
package utils

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// SimpleFunc is for RunInParallel.
type SimpleFunc func(ctx context.Context) error

// RunInParallel runs every function at once. See RunLimited.
func RunInParallel(ctx context.Context, fs []SimpleFunc) (time.Duration, error) {
	return RunLimited(ctx, len(fs), fs)
}

// RunLimited runs fs with at most limit of them in flight and returns the
// elapsed time with every error combined. The first failure or panic cancels
// the context seen by the others; functions not yet started are skipped.
// Cancellation errors are dropped once a real error has been recorded.
func RunLimited(ctx context.Context, limit int, fs []SimpleFunc) (time.Duration, error) {
	start := time.Now()
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if errs != nil && errors.Is(err, context.Canceled) {
			return
		}
		errs = multierr.Append(errs, err)
	}

	slots := make(chan struct{}, limit)
	for i, f := range fs {
		if ctx.Err() == nil {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
			}
		}
		if err := ctx.Err(); err != nil {
			record(err)
			break
		}
		wg.Add(1)
		done := func() {
			<-slots
			wg.Done()
		}
		// a panicking f skips done; the callback reports it instead
		goutils.PanicCapturingGoWithCallback(func() {
			if err := f(ctx); err != nil {
				record(err)
				cancel()
			}
			done()
		}, func(r interface{}) {
			record(errors.Errorf("panic in parallel function %d: %v", i, r))
			cancel()
			done()
		})
	}
	wg.Wait()
	return time.Since(start), errs
}
