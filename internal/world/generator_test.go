package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func TestDefaultGeneratorConfig(t *testing.T) {
	config := DefaultGeneratorConfig(40, 30, 2)

	assert.Equal(t, 40, config.Width)
	assert.Equal(t, 30, config.Height)
	assert.Equal(t, 2, config.Worlds)
	assert.Equal(t, 3, config.ZoneSeeds)
	assert.Equal(t, 250, config.GeyserRatio)
	assert.Equal(t, 1, config.OilWells)
}

func TestNewGenerator(t *testing.T) {
	config := DefaultGeneratorConfig(10, 10, 1)
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.config)
	assert.Same(t, rng, generator.rng)
}

type census struct {
	geysers, oilWells, pois, plants, critters, neutronium int
	handles                                               map[core.Handle]bool
}

func takeCensus(t *testing.T, g *Grid, world int) census {
	t.Helper()
	c := census{handles: map[core.Handle]bool{}}
	poi := map[string]bool{"HeadquartersComplete": true}
	for _, p := range pois {
		poi[p.id] = true
	}

	for i := 0; i < g.CellCount(); i++ {
		if w, _, _ := g.XY(i); w != world {
			continue
		}
		cell, ok := g.Cell(i)
		require.True(t, ok)
		if cell.Element.ID == core.ElementUnobtanium {
			c.neutronium++
		}
		if b := cell.Building; b != nil {
			require.NotEmpty(t, b.PrefabID, "no placeholder left behind")
			require.False(t, c.handles[b.Handle], "handles are unique")
			c.handles[b.Handle] = true
			switch {
			case b.IsGeyser():
				c.geysers++
			case b.HasTag(core.TagOilWell):
				c.oilWells++
			case b.HasTag(core.TagPlant):
				c.plants++
			case poi[b.PrefabID]:
				c.pois++
			}
		}
		if p := cell.Pickupable; p != nil {
			require.True(t, p.HasTag(core.TagCreature))
			require.False(t, c.handles[p.Handle])
			c.handles[p.Handle] = true
			c.critters++
		}
	}
	return c
}

func TestGenerate(t *testing.T) {
	config := DefaultGeneratorConfig(40, 30, 2)
	grid := NewGenerator(config, newTestRNG()).Generate()

	require.Equal(t, 40*30*2, grid.CellCount())

	for w := 0; w < 2; w++ {
		c := takeCensus(t, grid, w)
		assert.Equal(t, 40, c.neutronium, "bottom row is neutronium")
		assert.Equal(t, 1200/250, c.geysers)
		assert.Equal(t, config.OilWells, c.oilWells)
		assert.Equal(t, 1200/80, c.plants)
		assert.Equal(t, 1200/60, c.critters)
		if w == 0 {
			assert.Equal(t, config.POIs+1, c.pois)
		} else {
			assert.Equal(t, config.POIs, c.pois)
		}
	}

	hq := false
	for i := 0; i < grid.CellCount(); i++ {
		cell, _ := grid.Cell(i)
		if cell.Building != nil && cell.Building.PrefabID == "HeadquartersComplete" {
			w, _, _ := grid.XY(i)
			assert.Equal(t, 0, w)
			hq = true
		}
	}
	assert.True(t, hq, "printing pod in the first world")
}

func TestGenerateDeterministic(t *testing.T) {
	config := DefaultGeneratorConfig(20, 20, 1)
	a := NewGenerator(config, rand.New(rand.NewSource(7))).Generate()
	b := NewGenerator(config, rand.New(rand.NewSource(7))).Generate()

	for i := 0; i < a.CellCount(); i++ {
		ca, _ := a.Cell(i)
		cb, _ := b.Cell(i)
		assert.Equal(t, ca, cb, "cell %d", i)
	}
}

func TestGenerateZonesFillWorld(t *testing.T) {
	config := DefaultGeneratorConfig(20, 10, 1)
	config.ZoneSeeds = 1
	grid := NewGenerator(config, newTestRNG()).Generate()

	first, _ := grid.Cell(0)
	for i := 0; i < grid.CellCount(); i++ {
		cell, _ := grid.Cell(i)
		assert.Equal(t, first.Zone, cell.Zone, "a single seed covers the world")
		assert.True(t, cell.Zone.Valid())
		assert.NotEmpty(t, cell.Element.ID)
	}
}
