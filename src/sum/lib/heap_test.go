package sum_test

import (
	"sort"
	"testing"

	sum "sales-analysis/src/sum/lib"

	"github.com/stretchr/testify/require"
)

func TestEmptyHeap(t *testing.T) {
	h := sum.NewHeap(func(a, b int) int { return a - b })
	require.True(t, h.IsEmpty())
	require.Equal(t, 0, h.Size())
	require.Panics(t, func() { h.Top() })
	require.Panics(t, func() { h.Pop() })
}

func TestHeapPushPop(t *testing.T) {
	h := sum.NewHeap(func(a, b int) int { return a - b })
	h.Push(5)

	require.False(t, h.IsEmpty())
	require.Equal(t, 1, h.Size())
	require.Equal(t, 5, h.Top())

	require.Equal(t, 5, h.Pop())
	require.True(t, h.IsEmpty())
	require.Panics(t, func() { h.Pop() })
}

func TestHeapPopsInDescendingOrderAcrossResizes(t *testing.T) {
	h := sum.NewHeap(func(a, b int) int { return a - b })
	values := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		value := (i * 37) % 101
		values = append(values, value)
		h.Push(value)
	}
	require.Equal(t, 100, h.Size())

	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	for i, expected := range values {
		require.Equal(t, expected, h.Top())
		require.Equal(t, expected, h.Pop())
		require.Equal(t, len(values)-i-1, h.Size())
	}
	require.True(t, h.IsEmpty())
}

type period struct {
	Key     string
	Revenue int
}

func TestHeapWithStructs(t *testing.T) {
	h := sum.NewHeap(func(a, b period) int { return a.Revenue - b.Revenue })
	for _, p := range []period{{"Enero", 30}, {"Febrero", 25}, {"Marzo", 35}, {"Abril", 20}} {
		h.Push(p)
	}

	require.Equal(t, 4, h.Size())
	require.Equal(t, period{"Marzo", 35}, h.Pop())
	require.Equal(t, period{"Enero", 30}, h.Top())
}

func TestToperKeepsBestValues(t *testing.T) {
	tests := []struct {
		name     string
		k        int
		source   []int
		expected []int
	}{
		{"single", 1, []int{5, 1, 3, 6}, []int{6}},
		{"two", 2, []int{5, 1, 3, 6}, []int{6, 5}},
		{"three", 3, []int{5, 1, 3, 6, 7, 9}, []int{9, 7, 6}},
		{"duplicates and negatives", 4, []int{5, -2, 9, 7, 9, 3, -2, 6, 7}, []int{9, 9, 7, 7}},
		{"fewer values than k", 5, []int{2, 8}, []int{8, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toper := sum.NewToper(tt.k, func(a, b int) int { return b - a })
			for _, n := range tt.source {
				toper.Add(n)
			}
			require.Equal(t, tt.expected, toper.GetTopK())
		})
	}
}

func TestToperRejectsNonPositiveK(t *testing.T) {
	require.Nil(t, sum.NewToper(0, func(a, b int) int { return b - a }))
}
