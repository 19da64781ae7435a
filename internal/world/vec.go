package world

import "math"

// Vec3 is a position in world units.
type Vec3 struct {
	X, Y, Z float64
}

// Vec3i is an integer block coordinate.
type Vec3i struct {
	X, Y, Z int32
}

// Floor truncates a position down to the block containing it.
func (v Vec3) Floor() Vec3i {
	return Vec3i{
		X: int32(math.Floor(v.X)),
		Y: int32(math.Floor(v.Y)),
		Z: int32(math.Floor(v.Z)),
	}
}
