// Package parallel contains the bounded ForEach loops used by the trainers and transforms.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Threads reports how many goroutines a CPU bound loop should use.
func Threads() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// ForEachErr is ForEach for bodies that can fail. Once ctx is done or a body
// returns an error no further iterations start, and the first error is returned.
func ForEachErr(ctx context.Context, length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return ctx.Err()
	}

	var (
		once     sync.Once
		firstErr error
		failed   = make(chan struct{})
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			close(failed)
		})
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

loop:
	for i := 0; i < length; i++ {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		select {
		case <-ctx.Done():
			fail(ctx.Err())
			break loop
		case <-failed:
			break loop
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := body(i); err != nil {
				fail(err)
			}
		}(i)
	}

	wg.Wait()
	return firstErr
}

// Chunks splits length items into at most n contiguous [begin, end) ranges.
func Chunks(length, n int) [][2]int {
	if length <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > length {
		n = length
	}
	var out = make([][2]int, 0, n)
	size := (length + n - 1) / n
	for begin := 0; begin < length; begin += size {
		end := begin + size
		if end > length {
			end = length
		}
		out = append(out, [2]int{begin, end})
	}
	return out
}
