package world

import (
	"math/rand"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// GeneratorConfig holds configuration for world generation.
type GeneratorConfig struct {
	Width, Height int // per world
	Worlds        int
	ZoneSeeds     int     // zone regions per world
	GeyserRatio   int     // 1 geyser per N cells
	CritterRatio  int     // 1 critter per N cells
	PlantRatio    int     // 1 plant per N cells
	SolidChance   float64 // chance that a cell is solid rock
	OilWells      int     // per world
	POIs          int     // points of interest per world, besides the printing pod
}

// DefaultGeneratorConfig returns a sensible default configuration.
func DefaultGeneratorConfig(w, h, worlds int) GeneratorConfig {
	return GeneratorConfig{
		Width:        w,
		Height:       h,
		Worlds:       worlds,
		ZoneSeeds:    max(2, (w*h)/400),
		GeyserRatio:  250,
		CritterRatio: 60,
		PlantRatio:   80,
		SolidChance:  0.45,
		OilWells:     1,
		POIs:         3,
	}
}

type prefab struct {
	id, name string
}

var (
	geyserOutputs = []core.ElementID{
		"Water", "DirtyWater", "SaltWater", "Steam", "Hydrogen", "ChlorineGas",
		"ContaminatedOxygen", "CarbonDioxide", "Methane", "Magma", "MoltenIron",
		"MoltenCopper", "MoltenGold", "LiquidSulfur",
	}
	critters = []prefab{
		{"Hatch", "Hatch"}, {"Drecko", "Drecko"}, {"Mole", "Shove Vole"},
		{"Pacu", "Pacu"}, {"Puft", "Puft"}, {"Squirrel", "Pip"},
		{"Divergent", "Sweetle"}, {"Crab", "Pokeshell"},
	}
	plants = []prefab{
		{"SpiceVine", "Pincha Pepperplant"}, {"PrickleFlower", "Bristle Blossom"},
		{"MushroomPlant", "Dusk Cap"}, {"BasicSingleHarvestPlant", "Mealwood"},
		{"ColdWheat", "Sleet Wheat"},
	}
	pois = []prefab{
		{"CryoTank", "Cryo Tank"}, {"GeneShuffler", "Neural Vacillator"},
		{"MassiveHeatSinkComplete", "AETN"}, {"WarpPortal", "Teleporter"},
		{"WarpReceiver", "Teleporter Receiver"},
		{"WarpConduitSenderComplete", "Supply Teleporter Input"},
		{"WarpConduitReceiverComplete", "Supply Teleporter Output"},
	}
	clutter = []prefab{{"Ladder", "Ladder"}, {"Tile", "Tile"}, {"Bed", "Cot"}}

	// zoneRock is the solid element filling each zone.
	zoneRock = map[core.ZoneType]core.ElementID{
		core.ZoneFrozenWastes: "Granite",
		core.ZoneMagmaCore:    "Obsidian",
		core.ZoneOilField:     "IgneousRock",
		core.ZoneSpace:        "Katairite",
	}
	// zoneFluid is the non-solid element filling each zone.
	zoneFluid = map[core.ZoneType]core.ElementID{
		core.ZoneBoggyMarsh:  "DirtyWater",
		core.ZoneToxicJungle: "ChlorineGas",
		core.ZoneMagmaCore:   "Magma",
		core.ZoneOilField:    "CrudeOil",
		core.ZoneOcean:       "SaltWater",
		core.ZoneSpace:       "Vacuum",
	}
)

// Generator builds worlds with a deterministic RNG.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

func NewGenerator(config GeneratorConfig, rng *rand.Rand) *Generator {
	return &Generator{config: config, rng: rng}
}

// Generate creates a grid and populates every world.
func (g *Generator) Generate() *Grid {
	grid := NewGrid(g.config.Width, g.config.Height, g.config.Worlds)
	for w := 0; w < grid.Worlds(); w++ {
		g.placeZones(grid, w)
		g.placeNeutronium(grid, w)
		g.placeGeysers(grid, w)
		g.placeOilWells(grid, w)
		g.placePOIs(grid, w)
		g.placePlants(grid, w)
		g.placeCritters(grid, w)
	}
	return grid
}

// placeZones assigns every cell to the nearest zone seed and fills it with
// the zone's rock or fluid.
func (g *Generator) placeZones(grid *Grid, w int) {
	type seed struct {
		x, y int
		zone core.ZoneType
	}
	zones := core.AllZones()
	seeds := make([]seed, max(1, g.config.ZoneSeeds))
	for i := range seeds {
		seeds[i] = seed{
			x:    g.rng.Intn(grid.Width()),
			y:    g.rng.Intn(grid.Height()),
			zone: zones[g.rng.Intn(len(zones))],
		}
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			best, bestDist := seeds[0], -1
			for _, s := range seeds {
				if d := abs(s.x-x) + abs(s.y-y); bestDist < 0 || d < bestDist {
					best, bestDist = s, d
				}
			}

			solid := g.rng.Float64() < g.config.SolidChance
			var elem core.ElementID
			if solid {
				elem = lookupOr(zoneRock, best.zone, "SandStone")
			} else {
				elem = lookupOr(zoneFluid, best.zone, "Oxygen")
			}
			idx := grid.Idx(w, x, y)
			_ = grid.Update(idx, func(c *core.Cell) {
				c.Zone = best.zone
				c.Element = core.CellElement{ID: elem, Solid: solid}
			})
		}
	}
}

// placeNeutronium lines the bottom row with the indestructible floor.
func (g *Generator) placeNeutronium(grid *Grid, w int) {
	for x := 0; x < grid.Width(); x++ {
		_ = grid.SetElement(grid.Idx(w, x, grid.Height()-1), core.ElementUnobtanium, true)
	}
}

func (g *Generator) placeGeysers(grid *Grid, w int) {
	for _, idx := range g.freeCells(grid, w, g.count(g.config.GeyserRatio), false) {
		out := geyserOutputs[g.rng.Intn(len(geyserOutputs))]
		_, _ = grid.PlaceBuilding(idx, core.Building{
			PrefabID: "GeyserGeneric_" + string(out),
			Name:     string(out) + " Geyser",
			Geyser:   &core.Geyser{Output: out},
		})
	}
}

func (g *Generator) placeOilWells(grid *Grid, w int) {
	for _, idx := range g.freeCells(grid, w, g.config.OilWells, false) {
		_, _ = grid.PlaceBuilding(idx, core.Building{
			PrefabID: "OilWell",
			Name:     "Oil Reservoir",
			Tags:     core.NewTags(core.TagOilWell),
		})
	}
}

// placePOIs puts the printing pod in world 0, random points of interest and
// some ordinary buildings everywhere.
func (g *Generator) placePOIs(grid *Grid, w int) {
	n := g.config.POIs
	if w == 0 {
		n++
	}
	for i, idx := range g.freeCells(grid, w, n, false) {
		p := pois[g.rng.Intn(len(pois))]
		if w == 0 && i == 0 {
			p = prefab{"HeadquartersComplete", "Printing Pod"}
		}
		_, _ = grid.PlaceBuilding(idx, core.Building{PrefabID: p.id, Name: p.name})
	}
	for _, idx := range g.freeCells(grid, w, n, false) {
		p := clutter[g.rng.Intn(len(clutter))]
		_, _ = grid.PlaceBuilding(idx, core.Building{PrefabID: p.id, Name: p.name})
	}
}

func (g *Generator) placePlants(grid *Grid, w int) {
	for _, idx := range g.freeCells(grid, w, g.count(g.config.PlantRatio), false) {
		p := plants[g.rng.Intn(len(plants))]
		_, _ = grid.PlaceBuilding(idx, core.Building{
			PrefabID: p.id,
			Name:     p.name,
			Tags:     core.NewTags(core.TagPlant),
		})
	}
}

func (g *Generator) placeCritters(grid *Grid, w int) {
	for _, idx := range g.freeCells(grid, w, g.count(g.config.CritterRatio), true) {
		p := critters[g.rng.Intn(len(critters))]
		_, _ = grid.PlacePickupable(idx, core.Pickupable{
			PrefabID: p.id,
			Name:     p.name,
			Tags:     core.NewTags(core.TagCreature),
		})
	}
}

func (g *Generator) count(ratio int) int {
	if ratio <= 0 {
		return 0
	}
	return max(1, g.config.Width*g.config.Height/ratio)
}

// freeCells picks up to n random cells of world w with an empty building
// layer (or pickupable layer when pickup is set), skipping the floor row.
func (g *Generator) freeCells(grid *Grid, w, n int, pickup bool) []int {
	var out []int
	maxAttempts := n * 20
	for attempts := 0; len(out) < n && attempts < maxAttempts; attempts++ {
		x, y := g.rng.Intn(grid.Width()), g.rng.Intn(max(1, grid.Height()-1))
		idx := grid.Idx(w, x, y)
		c, _ := grid.Cell(idx)
		if (pickup && c.Pickupable == nil) || (!pickup && c.Building == nil) {
			out = append(out, idx)
			// Mark the slot so later picks in this batch skip it.
			if pickup {
				c.Pickupable = &core.Pickupable{}
			} else {
				c.Building = &core.Building{}
			}
			_ = grid.Update(idx, func(cell *core.Cell) { *cell = c })
		}
	}
	return out
}

func lookupOr(m map[core.ZoneType]core.ElementID, z core.ZoneType, def core.ElementID) core.ElementID {
	if id, ok := m[z]; ok {
		return id
	}
	return def
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
