package scripting

import (
	"github.com/voxelgate/server/internal/world"
)

// Controller drives one entity from a Lua tick hook. It implements
// world.Controller; the script update system calls Tick during the
// simulation phase.
type Controller struct {
	eng  *Engine
	cat  world.Category
	hook string

	entity    *world.Entity
	tickEvery int
	age       int
}

// NewController builds a controller for an archetype. hook may be empty
// for inert entities; tickEvery <= 1 means every tick.
func NewController(eng *Engine, cat world.Category, hook string, tickEvery int) *Controller {
	if tickEvery < 1 {
		tickEvery = 1
	}
	return &Controller{eng: eng, cat: cat, hook: hook, tickEvery: tickEvery}
}

// Bind attaches the entity this controller drives. Must be called before
// the first Tick.
func (c *Controller) Bind(e *world.Entity) { c.entity = e }

func (c *Controller) Category() world.Category { return c.cat }

// FinalizeTick runs in the finalize phase. Scripted entities do all their
// work in Tick; nothing to reconcile here.
func (c *Controller) FinalizeTick() {}

// Tick runs the Lua hook and applies its result to the live entity state.
// Simulation phase only.
func (c *Controller) Tick() {
	if c.entity == nil || c.hook == "" {
		return
	}
	c.age++
	if c.age%c.tickEvery != 0 {
		return
	}
	pos := c.entity.Position()
	res := c.eng.CallTick(c.hook, TickContext{
		ID:           int32(c.entity.ID()),
		X:            pos.X,
		Y:            pos.Y,
		Z:            pos.Z,
		ViewDistance: c.entity.ViewDistance(),
		Age:          c.age,
	})
	if res.Moved {
		c.entity.SetPosition(world.Vec3{X: res.X, Y: res.Y, Z: res.Z})
	}
	if res.ViewDistance > 0 {
		c.entity.SetViewDistance(res.ViewDistance)
	}
	if res.Die {
		c.entity.Kill()
	}
}
