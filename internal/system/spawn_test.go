package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voxelgate/server/internal/data"
	"github.com/voxelgate/server/internal/region"
	"github.com/voxelgate/server/internal/scripting"
	"github.com/voxelgate/server/internal/world"
)

func testEngine(t *testing.T, script string) *scripting.Engine {
	t.Helper()
	dir := t.TempDir()
	sub := filepath.Join(dir, "controllers")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "test.lua"), []byte(script), 0o644))
	eng, err := scripting.NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func testArchetypes(t *testing.T, yaml string) *data.ArchetypeTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archetypes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	table, err := data.LoadArchetypeTable(path)
	require.NoError(t, err)
	return table
}

func TestPopulateWorldPlacesSpawnEntries(t *testing.T) {
	eng := testEngine(t, `
function wander(e)
  return nil
end
`)
	table := testArchetypes(t, `
archetypes:
  - name: drone
    category: generic
    view_distance: 4
    script: wander
`)
	regions := region.NewManager(zap.NewNop(), world.NewIDSource())

	placed := PopulateWorld(regions, eng, table, []data.SpawnEntry{
		{Archetype: "drone", X: 10, Y: 64, Z: 10, Count: 3, Spread: 2},
	}, zap.NewNop())

	assert.Equal(t, 3, placed)
	require.Len(t, regions.All(), 1)
	_, live := regions.Population()
	assert.Equal(t, 3, live)
}

func TestPopulateWorldSkipsUnknownArchetype(t *testing.T) {
	eng := testEngine(t, ``)
	table := testArchetypes(t, `
archetypes:
  - name: drone
    category: generic
`)
	regions := region.NewManager(zap.NewNop(), world.NewIDSource())

	placed := PopulateWorld(regions, eng, table, []data.SpawnEntry{
		{Archetype: "ghost", X: 0, Y: 0, Z: 0, Count: 2},
	}, zap.NewNop())

	assert.Equal(t, 0, placed)
	assert.Empty(t, regions.All())
}

func TestPopulateWorldSkipsMissingScriptHook(t *testing.T) {
	eng := testEngine(t, ``)
	table := testArchetypes(t, `
archetypes:
  - name: drone
    category: generic
    script: nosuchhook
`)
	regions := region.NewManager(zap.NewNop(), world.NewIDSource())

	placed := PopulateWorld(regions, eng, table, []data.SpawnEntry{
		{Archetype: "drone", X: 0, Y: 0, Z: 0},
	}, zap.NewNop())

	assert.Equal(t, 0, placed)
}
