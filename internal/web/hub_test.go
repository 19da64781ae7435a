package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedStatus(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish(Status{Tick: 7, Online: 2})

	st := <-ch
	assert.Equal(t, uint64(7), st.Tick)
	assert.Equal(t, 2, st.Online)
}

func TestNewSubscriberGetsLastSnapshot(t *testing.T) {
	h := NewHub()
	h.Publish(Status{Tick: 3})

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	select {
	case st := <-ch:
		assert.Equal(t, uint64(3), st.Tick)
	default:
		t.Fatal("expected the last snapshot to be delivered immediately")
	}
}

func TestSlowSubscriberLosesSnapshots(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Fill the subscriber's buffer and keep publishing: the hub must not
	// block the publisher.
	for i := 0; i < 100; i++ {
		h.Publish(Status{Tick: uint64(i)})
	}

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(99), last.Tick)
}

func TestLastEmptyHub(t *testing.T) {
	h := NewHub()
	_, ok := h.Last()
	assert.False(t, ok)
}
