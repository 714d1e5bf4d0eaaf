// Package worker runs a function over a list of inputs on a bounded pool of
// goroutines while keeping results in input order.
package worker

import (
	"context"
	"sync"
)

// Result is the outcome of fn for the input at the same index.
type Result[T any] struct {
	Input  string
	Output T
	Err    error
	// Skipped is set when ctx was done before the input was started.
	Skipped bool
}

// Run calls fn for every input using at most size goroutines.
// The returned slice has one entry per input, at the input's index.
// Cancellation is observed between inputs only: fn is never interrupted by
// Run, and inputs not yet started when ctx is done are marked Skipped.
func Run[T any](ctx context.Context, inputs []string, size int, fn func(context.Context, string) (T, error)) []Result[T] {
	results := make([]Result[T], len(inputs))
	if len(inputs) == 0 {
		return results
	}
	size = max(1, min(size, len(inputs)))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range size {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each index is written by exactly one worker.
				if err := ctx.Err(); err != nil {
					results[i] = Result[T]{Input: inputs[i], Err: err, Skipped: true}
					continue
				}
				out, err := fn(ctx, inputs[i])
				results[i] = Result[T]{Input: inputs[i], Output: out, Err: err}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
