// Package resilience groups the fault tolerance used around model providers:
// circuitbreaker stops calling a backend that keeps failing and retry re-runs
// transient failures with capped exponential backoff.
//
//	cb := circuitbreaker.New(circuitbreaker.ForProvider("openai"))
//	out, err := retry.Do(ctx, retry.ModelCallPolicy(), logger, func(ctx context.Context, attempt int) (string, error) {
//	    return circuitbreaker.Do(cb, func() (string, error) {
//	        return callProvider(ctx)
//	    })
//	})
package resilience
