package world

import (
	"fmt"
	"sync/atomic"
)

// EntityID identifies a spawned entity. Ids are unique among spawned
// entities process-wide; NotSpawned marks an entity without an id.
type EntityID int32

// NotSpawned is the sentinel id of an entity that is not in any registry.
const NotSpawned EntityID = -1

// IDSource issues monotonically increasing entity ids starting at 1. One
// source is shared by every registry in the process so ids never collide
// between regions. Safe for concurrent use.
type IDSource struct {
	next atomic.Int32
}

func NewIDSource() *IDSource {
	s := &IDSource{}
	s.next.Store(1)
	return s
}

// Next returns the next unused id. Panics if the counter wraps into the
// reserved sentinel range: id space exhaustion is unrecoverable and the
// process must not continue handing out colliding ids.
func (s *IDSource) Next() EntityID {
	n := s.next.Add(1)
	if n < 2 {
		panic(fmt.Sprintf("entity id space exhausted (counter wrapped to %d)", n))
	}
	return EntityID(n - 1)
}
