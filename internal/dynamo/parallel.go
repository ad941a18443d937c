package dynamo

import "sync"

// DefaultWorkers is the fan-out used when a caller passes workers <= 0.
const DefaultWorkers = 4

// ParallelFor executes fn over [0, n) split into contiguous chunks.
// Ranges of n <= minChunk run inline on the calling goroutine.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if n <= 0 {
		return
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if minChunk > 0 && n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
