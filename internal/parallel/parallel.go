// Package parallel partitions independent index ranges across worker
// goroutines. The host kernels use it to split GEMM column loops, whose
// iterations write disjoint slices of the output.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how an index range is split.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Below this many iterations the loop stays sequential.
}

// DefaultConfig sizes the pool to the machine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// WithMinChunk returns a copy of the config with a different sequential
// threshold. Block loops use a small threshold: each block is already a
// large unit of work.
func (c Config) WithMinChunk(size int) Config {
	c.MinChunkSize = size
	return c
}

// For executes f(i) for every i in [0, n). Iterations must be
// independent: they may run concurrently and in any order.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
