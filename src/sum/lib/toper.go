package sum

// Toper keeps the k smallest values seen according to comparer.
// Invert the comparer to keep the k largest.
type Toper[T any] struct {
	heap *heap[T]
	k    int
}

func NewToper[T any](k int, comparer func(T, T) int) *Toper[T] {
	if k <= 0 {
		return nil
	}

	return &Toper[T]{
		heap: NewHeap(comparer),
		k:    k,
	}
}

func (t *Toper[T]) Add(value T) {
	if t.heap.Size() < t.k {
		t.heap.Push(value)
		return
	}

	if t.heap.comparer(value, t.heap.Top()) < 0 {
		t.heap.Pop()
		t.heap.Push(value)
	}
}

// GetTopK drains the toper, returning at most k values, best first.
func (t *Toper[T]) GetTopK() []T {
	result := make([]T, t.heap.Size())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = t.heap.Pop()
	}
	return result
}
