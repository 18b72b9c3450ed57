package sum

type heap[T any] struct {
	amount   int
	data     []T
	comparer func(T, T) int
}

const (
	INITIAL_SIZE   = 16
	SCALING_FACTOR = 2
	EMPTY_HEAP     = "Heap is empty"
)

// NewHeap returns a max-heap ordered by comparer.
func NewHeap[T any](comparer func(T, T) int) *heap[T] {
	return &heap[T]{
		data:     make([]T, INITIAL_SIZE),
		comparer: comparer,
	}
}

func (h *heap[T]) IsEmpty() bool {
	return h.Size() == 0
}

func (h *heap[T]) Size() int {
	return h.amount
}

func (h *heap[T]) Top() T {
	if h.IsEmpty() {
		panic(EMPTY_HEAP)
	}
	return h.data[0]
}

func (h *heap[T]) Pop() T {
	if h.IsEmpty() {
		panic(EMPTY_HEAP)
	}

	top := h.data[0]
	h.amount--
	h.swap(0, h.amount)
	h.downHeap(0)
	h.shrinkIfNeeded()
	return top
}

func (h *heap[T]) Push(value T) {
	h.growIfNeeded()
	h.data[h.amount] = value
	h.upHeap(h.amount)
	h.amount++
}

func (h *heap[T]) upHeap(pos int) {
	if pos == 0 {
		return
	}
	parentPos := (pos - 1) / 2
	if h.comparer(h.data[pos], h.data[parentPos]) <= 0 {
		return
	}
	h.swap(pos, parentPos)
	h.upHeap(parentPos)
}

func (h *heap[T]) downHeap(pos int) {
	greater := pos
	leftChildPos := pos*2 + 1
	rightChildPos := pos*2 + 2

	if leftChildPos < h.amount && h.comparer(h.data[leftChildPos], h.data[greater]) > 0 {
		greater = leftChildPos
	}
	if rightChildPos < h.amount && h.comparer(h.data[rightChildPos], h.data[greater]) > 0 {
		greater = rightChildPos
	}
	if greater == pos {
		return
	}
	h.swap(pos, greater)
	h.downHeap(greater)
}

func (h *heap[T]) growIfNeeded() {
	if h.amount < len(h.data) {
		return
	}
	newData := make([]T, len(h.data)*SCALING_FACTOR)
	copy(newData, h.data[:h.amount])
	h.data = newData
}

func (h *heap[T]) shrinkIfNeeded() {
	if len(h.data) <= INITIAL_SIZE || h.amount*4 > len(h.data) {
		return
	}
	newData := make([]T, len(h.data)/SCALING_FACTOR)
	copy(newData, h.data[:h.amount])
	h.data = newData
}

func (h *heap[T]) swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
}
