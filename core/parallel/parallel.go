// Package parallel provides the bounded worker pool used to fan out
// cross-validation folds and tuning candidates.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultWorkers returns the pool size used when none is configured:
// one fewer than the available processor count, and never below one.
func DefaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes fn for every item index in [0, items) using at most
// workers goroutines, and blocks until all items are processed.
// fn must be safe to call concurrently for distinct indices.
func Run(items, workers int, fn func(i int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if workers > items {
		workers = items
	}

	jobs := make(chan int, items)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	for i := 0; i < items; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}

// RunSequentialThreshold runs fn sequentially when the item count is at
// or below threshold, avoiding goroutine overhead for tiny workloads.
func RunSequentialThreshold(items, threshold, workers int, fn func(i int)) {
	if items <= threshold {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}
	Run(items, workers, fn)
}
