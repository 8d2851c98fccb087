package queue

// Queue is an append-only sequence read from a movable front cursor.
// Shifted elements stay in storage so Rewind can replay them.
//
// Callers keep a +Inf sentinel as the last element, so At(1) on the
// last real element never reads past storage.
type Queue[T any] struct {
	items []T
	first int
}

func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{}
	for _, it := range items {
		q.Push(it)
	}
	return q
}

func (q *Queue[T]) Push(x T) {
	q.items = append(q.items, x)
}

// At returns the i-th live element, counted from the front cursor.
// The pointer is only valid until the next Push.
func (q *Queue[T]) At(i int) *T {
	return &q.items[q.first+i]
}

func (q *Queue[T]) Shift() {
	q.first++
}

func (q *Queue[T]) Rewind() {
	q.first = 0
}

// Len is the number of live elements, sentinels included.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.first
}

// Cap is the number of stored elements, shifted or not.
func (q *Queue[T]) Cap() int {
	return len(q.items)
}
