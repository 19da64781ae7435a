package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArchetypeTable(t *testing.T) {
	path := writeFile(t, "archetypes.yaml", `
archetypes:
  - name: wisp
    category: generic
    view_distance: 6
    script: wisp_tick
    tick_every: 4
  - name: beacon
    category: block
    view_distance: 12
`)
	tbl, err := LoadArchetypeTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count())

	wisp := tbl.Get("wisp")
	require.NotNil(t, wisp)
	assert.Equal(t, "generic", wisp.Category)
	assert.Equal(t, 6, wisp.ViewDistance)
	assert.Equal(t, "wisp_tick", wisp.Script)

	assert.Nil(t, tbl.Get("unknown"))
}

func TestLoadArchetypeTableRejectsUnnamed(t *testing.T) {
	path := writeFile(t, "archetypes.yaml", `
archetypes:
  - category: generic
`)
	_, err := LoadArchetypeTable(path)
	assert.Error(t, err)
}

func TestLoadSpawnListDefaultsCount(t *testing.T) {
	path := writeFile(t, "spawns.yaml", `
spawns:
  - archetype: wisp
    x: 10.5
    y: 64
    z: -3
  - archetype: beacon
    x: 0
    y: 70
    z: 0
    count: 3
    spread: 2.5
`)
	spawns, err := LoadSpawnList(path)
	require.NoError(t, err)
	require.Len(t, spawns, 2)
	assert.Equal(t, 1, spawns[0].Count)
	assert.Equal(t, 3, spawns[1].Count)
	assert.Equal(t, -3.0, spawns[0].Z)
}

func TestLoadSpawnListMissingFile(t *testing.T) {
	_, err := LoadSpawnList(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
