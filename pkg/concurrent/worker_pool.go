package concurrent

import "sync"

// WorkerPool fans a fixed batch of jobs out to numWorkers goroutines. Add
// every job first, Close the queue, then Start and Wait before collecting.
type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobs       chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T JobI, G any](numWorkers, totalJobs int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobs:       make(chan T, totalJobs),
		results:    make(chan G, totalJobs),
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobs <- job
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobs)
}

func (wp *WorkerPool[T, G]) Start(f JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobs {
				wp.results <- f(job)
			}
		}()
	}
}

// Wait blocks until every queued job is done, then seals the results channel
// so CollectResults can be ranged over.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}
