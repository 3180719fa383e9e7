package generator

import (
	"sync"

	"github.com/arlyon/async-stripe-sub040/internal/emit"
)

// renderJob renders one file.
type renderJob func() (*emit.File, error)

// runPool runs jobs on up to workers goroutines and returns their results
// in job order. When several jobs fail, the error of the earliest one is
// returned so the outcome does not depend on scheduling. progress, if set,
// is called from a single goroutine at a time.
func runPool(workers int, jobs []renderJob, progress func(done, total int)) ([]*emit.File, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]*emit.File, len(jobs))
	errs := make([]error, len(jobs))
	indexes := make(chan int)

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i], errs[i] = jobs[i]()
				if progress != nil {
					mu.Lock()
					done++
					progress(done, len(jobs))
					mu.Unlock()
				}
			}
		}()
	}
	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
