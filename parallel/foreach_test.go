package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEach(t *testing.T) {
	var sum atomic.Int64
	ForEach(100, 7, func(i int) {
		sum.Add(int64(i))
	})
	if sum.Load() != 4950 {
		t.Errorf("ForEach sum: got %d, want 4950", sum.Load())
	}
	ForEach(0, 7, func(i int) {
		t.Errorf("body called for empty loop")
	})
}

func TestForEachLimit(t *testing.T) {
	var running, peak atomic.Int32
	ForEach(50, 3, func(i int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
	})
	if peak.Load() > 3 {
		t.Errorf("more than 3 goroutines at once: %d", peak.Load())
	}
}

func TestForEachErr(t *testing.T) {
	boom := errors.New("boom")
	err := ForEachErr(context.Background(), 1000, 4, func(i int) error {
		if i == 10 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("ForEachErr: got %v, want %v", err, boom)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ForEachErr(ctx, 10, 2, func(i int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ForEachErr on cancelled context: got %v", err)
	}

	if err := ForEachErr(context.Background(), 10, 2, func(i int) error { return nil }); err != nil {
		t.Errorf("ForEachErr: unexpected error %v", err)
	}
}

func TestChunks(t *testing.T) {
	for _, tc := range []struct {
		length, n, want int
	}{
		{10, 3, 3}, {10, 20, 10}, {1, 4, 1}, {0, 4, 0}, {7, 0, 1},
	} {
		got := Chunks(tc.length, tc.n)
		if len(got) != tc.want {
			t.Errorf("Chunks(%d, %d): %d chunks, want %d", tc.length, tc.n, len(got), tc.want)
		}
		covered := 0
		for i, c := range got {
			if i > 0 && c[0] != got[i-1][1] {
				t.Errorf("Chunks(%d, %d): gap before %v", tc.length, tc.n, c)
			}
			covered += c[1] - c[0]
		}
		if covered != tc.length {
			t.Errorf("Chunks(%d, %d) covers %d", tc.length, tc.n, covered)
		}
	}
}

func TestThreads(t *testing.T) {
	if Threads() < 1 {
		t.Errorf("Threads() < 1")
	}
}
