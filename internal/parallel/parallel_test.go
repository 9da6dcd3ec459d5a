package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4}

	var counter int64
	n := 1000
	seen := make([]bool, n)

	err := For(n, func(i int) error {
		atomic.AddInt64(&counter, 1)
		seen[i] = true
		return nil
	}, cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(n), counter)
	for i, ok := range seen {
		assert.True(t, ok, "index %d", i)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var order []int
	err := For(5, func(i int) error {
		order = append(order, i)
		return nil
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

// TestFor_FirstError tests that the lowest failing index wins regardless of
// scheduling, and that the remaining jobs still run.
func TestFor_FirstError(t *testing.T) {
	errLow := errors.New("low")
	errHigh := errors.New("high")

	for _, cfg := range []Config{{Enabled: false}, {Enabled: true, NumWorkers: 8}} {
		var counter int64
		err := For(64, func(i int) error {
			atomic.AddInt64(&counter, 1)
			switch i {
			case 10:
				return errLow
			case 50:
				return errHigh
			}
			return nil
		}, cfg)
		assert.True(t, errors.Is(err, errLow))
		assert.Equal(t, int64(64), counter)
	}
}

func TestFor_WorkerLimit(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3}

	var active, peak int64
	err := For(200, func(int) error {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		runtime.Gosched()
		atomic.AddInt64(&active, -1)
		return nil
	}, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak, int64(cfg.NumWorkers))
	assert.Positive(t, peak)
}

func TestFor_Empty(t *testing.T) {
	assert.NoError(t, For(0, func(int) error { return errors.New("never") }, DefaultConfig()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.NumWorkers)
	assert.Equal(t, cfg.NumWorkers > 1, cfg.Enabled)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(n, func(i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(n, func(i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			}, cfgSeq)
		}
	})
}
