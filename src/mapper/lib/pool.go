package mapper

import (
	"context"
	"sync"
)

const DEFAULT_POOL_WORKERS = 4

// Pool fans lines out to several goroutines, each owning its own RecordTransform.
// Arrival order at the collector is not preserved.
type Pool struct {
	workers int
	opts    []Option
}

func NewPool(workers int, opts ...Option) *Pool {
	if workers <= 0 {
		workers = DEFAULT_POOL_WORKERS
	}
	return &Pool{
		workers: workers,
		opts:    opts,
	}
}

type lockedSinks struct {
	mutex    sync.Mutex
	out      Collector
	reporter Reporter
}

func (l *lockedSinks) Collect(key string, value float64) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.out.Collect(key, value)
}

func (l *lockedSinks) SetStatus(status string) {
	if l.reporter == nil {
		return
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.reporter.SetStatus(status)
}

// Run consumes lines until the channel is closed or ctx is done. Calls to out and
// reporter are serialized, so neither needs its own locking.
func (p *Pool) Run(ctx context.Context, lines <-chan string, out Collector, reporter Reporter) (Stats, error) {
	sinks := &lockedSinks{out: out, reporter: reporter}
	partials := make([]Stats, p.workers)
	for i := range partials {
		partials[i] = NewStats()
	}

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(stats *Stats) {
			defer wg.Done()
			transform := NewRecordTransform(p.opts...)
			for {
				select {
				case <-ctx.Done():
					return
				case line, ok := <-lines:
					if !ok {
						return
					}
					stats.Add(transform.Process(line, sinks, sinks))
				}
			}
		}(&partials[i])
	}
	wg.Wait()

	total := NewStats()
	for _, partial := range partials {
		total.Merge(partial)
	}
	return total, ctx.Err()
}
