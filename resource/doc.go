// Package resource bounds the resources a classification run may consume.
//
// A Controller manages three independent limits:
//
//   - Memory: a budget for decoded dataset payloads (fail-fast, never blocks)
//   - Workers: the number of dataset files loaded concurrently
//   - IO: a token bucket on bytes read from dataset files
//
// # Memory
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//
//	if err := rc.AcquireMemory(n); err != nil {
//	    // ErrMemoryLimitExceeded: evict something or give up
//	}
//	defer rc.ReleaseMemory(n)
//
// # Workers
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO
//
//	reader := resource.NewRateLimitedReader(ctx, file, rc)
//
// All methods are safe for concurrent use, and all of them are no-ops on a
// nil *Controller so callers can keep limits optional.
package resource
