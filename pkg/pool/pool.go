package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// job is a unit of work handed to a worker. Exactly one of run and search is set.
type job struct {
	run    func()
	search func()
}

// Pool is a fixed set of worker goroutines used to parallelize CPU bound work,
// such as proof verification or prime generation.
//
// A nil *Pool is valid: every method then runs the work on the calling goroutine.
type Pool struct {
	jobs    chan job
	workers int
	once    sync.Once
}

// NewPool starts a pool with count workers.
//
// If count <= 0, runtime.NumCPU() workers are started.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		jobs:    make(chan job),
		workers: count,
	}
	for i := 0; i < count; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	for j := range p.jobs {
		if j.search != nil {
			j.search()
		} else {
			j.run()
		}
	}
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.jobs) })
}

// Parallelize calls f(0), …, f(count-1) and returns the results in order.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	results := make([]interface{}, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		i := i
		p.jobs <- job{run: func() {
			defer wg.Done()
			results[i] = f(i)
		}}
	}
	wg.Wait()
	return results
}

// Search calls f until it has returned count non-nil values, and returns those.
//
// f tries a single candidate, returning nil on failure.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	results := make([]interface{}, count)
	if p == nil {
		for i := range results {
			for results[i] == nil {
				results[i] = f()
			}
		}
		return results
	}

	// remaining is decremented once per success; the goroutine taking it from
	// k+1 to k owns slot k.
	remaining := int64(count)
	var wg sync.WaitGroup
	searcher := func() {
		defer wg.Done()
		for atomic.LoadInt64(&remaining) > 0 {
			res := f()
			if res == nil {
				continue
			}
			slot := atomic.AddInt64(&remaining, -1)
			if slot < 0 {
				return
			}
			results[slot] = res
		}
	}

	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		p.jobs <- job{search: searcher}
	}
	wg.Wait()
	return results
}

// LockedReader wraps an io.Reader so that it can be shared between workers.
//
// Concurrent readers never observe the same bytes, but which goroutine receives
// which part of the stream is not deterministic.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping r.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
