package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmittedEventsDrainAfterSwap(t *testing.T) {
	q := NewQueue[string]()
	q.Emit("a")
	q.Emit("b")

	assert.Empty(t, q.Drain(), "events stay queued until the swap")

	q.CopySnapshot()
	assert.Equal(t, []string{"a", "b"}, q.Drain())
}

func TestSwapDiscardsPreviousFront(t *testing.T) {
	q := NewQueue[int]()
	q.Emit(1)
	q.CopySnapshot()

	q.Emit(2)
	q.CopySnapshot()

	assert.Equal(t, []int{2}, q.Drain(), "undrained events do not carry over")
}

func TestEmptySwapYieldsEmptyDrain(t *testing.T) {
	q := NewQueue[int]()
	q.CopySnapshot()
	assert.Empty(t, q.Drain())
}
