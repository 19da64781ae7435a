// Package event provides double-buffered per-tick event queues. Events
// emitted in tick N are drainable in tick N+1, after the buffers swap at
// the commit boundary.
package event

// Queue is a typed two-buffer event queue. Emit appends to the back buffer;
// Drain reads the front buffer. It implements snapshot.Snapshotable so a
// registry's commit swaps it together with the rest of the tick state.
type Queue[T any] struct {
	front []T
	back  []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Emit queues an event for the next tick.
func (q *Queue[T]) Emit(v T) {
	q.back = append(q.back, v)
}

// Drain returns the events emitted before the last swap. The slice is
// valid until the next swap.
func (q *Queue[T]) Drain() []T {
	return q.front
}

// CopySnapshot rotates back to front and clears the new back buffer.
func (q *Queue[T]) CopySnapshot() {
	q.front, q.back = q.back, q.front[:0]
}
