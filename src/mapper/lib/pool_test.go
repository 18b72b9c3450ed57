package mapper_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	mapper "sales-analysis/src/mapper/lib"

	"github.com/stretchr/testify/require"
)

type totalsCollector struct {
	totals   map[string]float64
	statuses int
}

func (c *totalsCollector) Collect(key string, value float64) {
	c.totals[key] += value
}

func (c *totalsCollector) SetStatus(status string) {
	c.statuses++
}

func feed(lines []string) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, line := range lines {
			ch <- line
		}
	}()
	return ch
}

func TestPoolAggregatesLikeSequentialRun(t *testing.T) {
	var lines []string
	expected := map[string]float64{}
	for i := 0; i < 600; i++ {
		month := i%12 + 1
		quantity := i%7 + 1
		price := float64(i%5) + 0.5
		lines = append(lines, fmt.Sprintf("%d,Prod,%d,%.1f,%02d/%02d/23 10:00,X", i, quantity, price, month, i%28+1))
		expected[fmt.Sprintf("(%02d)/2023", month)] += float64(quantity) * price
	}
	lines = append(lines, "bad,line", "1,P,q,1.0,01/01/23 10:00,X")

	collector := &totalsCollector{totals: map[string]float64{}}
	pool := mapper.NewPool(8, mapper.WithKeyPadding(false))

	stats, err := pool.Run(context.Background(), feed(lines), collector, collector)
	require.NoError(t, err)

	require.Equal(t, len(lines), stats.Lines)
	require.Equal(t, 600, stats.Emitted)
	require.Equal(t, 1, stats.Dropped[mapper.DropSchema])
	require.Equal(t, 1, stats.Dropped[mapper.DropNumeric])
	require.Equal(t, 1, collector.statuses)

	require.Len(t, collector.totals, 12)
	for key, total := range collector.totals {
		suffix := key[len(key)-len("(01)/2023"):]
		require.InDelta(t, expected[suffix], total, 1e-6, "key %s", key)
	}
}

func TestPoolStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines := make(chan string)
	defer close(lines)

	var mutex sync.Mutex
	collected := 0
	collector := mapper.CollectorFunc(func(key string, value float64) {
		mutex.Lock()
		collected++
		mutex.Unlock()
	})

	stats, err := mapper.NewPool(2).Run(ctx, lines, collector, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, stats.Lines)
	require.Equal(t, 0, collected)
}

func TestTransformIsSafeForConcurrentUse(t *testing.T) {
	transform := mapper.NewRecordTransform()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				result := transform.Transform("1,ProdA,10,5.0,15/04/21 10:00,X")
				if !result.Emitted() || result.Pair.Value != 50.0 {
					t.Errorf("unexpected result %+v", result)
					return
				}
			}
		}()
	}
	wg.Wait()
}
