package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/world"
)

// CreateTestGrid creates a grid of open oxygen cells in the Sandstone zone.
func CreateTestGrid(t *testing.T, width, height, worlds int) *world.Grid {
	t.Helper()
	g := world.NewGrid(width, height, worlds)
	for i := 0; i < g.CellCount(); i++ {
		require.NoError(t, g.Update(i, func(c *core.Cell) {
			c.Zone = core.ZoneSandstone
			c.Element = core.CellElement{ID: "Oxygen"}
		}))
	}
	return g
}

// Bury makes the cell at (x, y) of world w solid rock.
func Bury(t *testing.T, g *world.Grid, w, x, y int) {
	t.Helper()
	require.NoError(t, g.SetElement(g.Idx(w, x, y), "Granite", true))
}

// PlaceGeyser puts a geyser emitting out at (x, y) of world w.
func PlaceGeyser(t *testing.T, g *world.Grid, w, x, y int, out core.ElementID) core.Handle {
	t.Helper()
	h, err := g.PlaceBuilding(g.Idx(w, x, y), core.Building{
		PrefabID: "GeyserGeneric_" + string(out),
		Name:     string(out) + " Geyser",
		Geyser:   &core.Geyser{Output: out},
	})
	require.NoError(t, err)
	return h
}

// PlaceBuilding puts a building with the given prefab and tags at (x, y) of world w.
func PlaceBuilding(t *testing.T, g *world.Grid, w, x, y int, prefabID, name string, tags ...core.Tag) core.Handle {
	t.Helper()
	h, err := g.PlaceBuilding(g.Idx(w, x, y), core.Building{
		PrefabID: prefabID,
		Name:     name,
		Tags:     core.NewTags(tags...),
	})
	require.NoError(t, err)
	return h
}

// PlaceCritter puts a creature at (x, y) of world w.
func PlaceCritter(t *testing.T, g *world.Grid, w, x, y int, prefabID, name string) core.Handle {
	t.Helper()
	h, err := g.PlacePickupable(g.Idx(w, x, y), core.Pickupable{
		PrefabID: prefabID,
		Name:     name,
		Tags:     core.NewTags(core.TagCreature),
	})
	require.NoError(t, err)
	return h
}
