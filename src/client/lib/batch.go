package client

type Batch struct {
	Items []string
	size  int
}

func NewBatch(batchSize int) *Batch {
	return &Batch{
		Items: make([]string, 0, batchSize),
		size:  batchSize,
	}
}

func (b *Batch) AddItem(item string) (successfulAddition bool) {
	if b.IsFull() {
		return false
	}

	b.Items = append(b.Items, item)
	return true
}

func (b *Batch) IsFull() bool {
	return len(b.Items) >= b.size
}

func (b *Batch) IsEmpty() bool {
	return len(b.Items) == 0
}
