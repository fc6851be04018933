/*
Package parallel provides the bounded data-parallel loop used to fan out
independent batches of work within a frontier level.
*/
package parallel

import (
	"runtime"
	"sync"
)

/*
For takes a number of items, a worker bound and a body function and runs
the body once per item index, fanning items out over at most the given
number of goroutines. A bound of 0 or less uses one goroutine per
available CPU. For returns only after every body call has returned, so
callers may rely on all writes made by the bodies being visible.

Bodies must write to disjoint state: no ordering is guaranteed between
item indices.
*/
func For(n, workers int, body func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			body(i)
		}
		return
	}
	var wg sync.WaitGroup
	next := make(chan int)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				body(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}
