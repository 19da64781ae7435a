package system

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/data"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/scripting"
	"github.com/voxelgate/server/internal/world"
)

// PopulateWorld places the boot spawn list into the region map. Each entry
// spawns Count copies of its archetype scattered by Spread on X/Z; the
// chunk under every copy is loaded so it is simulated from tick one.
func PopulateWorld(
	regions *region.Manager,
	eng *scripting.Engine,
	table *data.ArchetypeTable,
	spawns []data.SpawnEntry,
	log *zap.Logger,
) int {
	placed := 0
	for _, entry := range spawns {
		tpl := table.Get(entry.Archetype)
		if tpl == nil {
			log.Warn("spawn entry references unknown archetype", zap.String("archetype", entry.Archetype))
			continue
		}
		for i := 0; i < entry.Count; i++ {
			pos := world.Vec3{X: entry.X, Y: entry.Y, Z: entry.Z}
			if entry.Spread > 0 {
				pos.X += (rand.Float64()*2 - 1) * entry.Spread
				pos.Z += (rand.Float64()*2 - 1) * entry.Spread
			}
			if spawnOne(regions, eng, tpl, pos) {
				placed++
			}
		}
	}
	log.Info("world populated", zap.Int("entities", placed), zap.Int("entries", len(spawns)))
	return placed
}

func spawnOne(regions *region.Manager, eng *scripting.Engine, tpl *data.ArchetypeTemplate, pos world.Vec3) bool {
	if tpl.Script != "" && !eng.HasHook(tpl.Script) {
		return false
	}
	ctrl := scripting.NewController(eng, categoryFor(tpl.Category), tpl.Script, tpl.TickEvery)
	e := world.NewEntity(ctrl, pos, tpl.ViewDistance)
	ctrl.Bind(e)

	r := regions.RegionAt(pos.Floor())
	r.LoadChunk(region.ChunkCoord(pos.Floor()))
	r.Spawn(e)
	return true
}

func categoryFor(name string) world.Category {
	switch name {
	case "player":
		return world.CategoryPlayer
	case "block":
		return world.CategoryBlock
	default:
		return world.CategoryGeneric
	}
}
