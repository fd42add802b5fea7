package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/tables"
)

func geyserCell(output core.ElementID, solid bool) core.Cell {
	return core.Cell{
		Index: 7,
		Building: &core.Building{
			Handle:   11,
			PrefabID: "GeyserGeneric_" + string(output),
			Name:     "Geyser",
			Geyser:   &core.Geyser{Output: output},
		},
		Element: core.CellElement{ID: "Granite", Solid: solid},
		Zone:    core.ZoneSandstone,
	}
}

func TestClassifyRules(t *testing.T) {
	tbl := tables.Default()

	critter := &core.Pickupable{Handle: 21, PrefabID: "Mole", Name: "Shove Vole", Tags: core.NewTags(core.TagCreature)}
	egg := &core.Pickupable{Handle: 22, PrefabID: "MoleEgg", Name: "Shove Vole Egg"}
	plant := &core.Building{Handle: 31, PrefabID: "SpiceVine", Name: "Pincha Pepperplant", Tags: core.NewTags(core.TagPlant)}
	portal := &core.Building{Handle: 41, PrefabID: "WarpPortal", Name: "Teleporter Transmitter"}
	ladder := &core.Building{Handle: 42, PrefabID: "Ladder", Name: "Ladder"}
	oilWell := &core.Building{Handle: 51, PrefabID: "OilWell", Name: "Oil Reservoir", Tags: core.NewTags(core.TagOilWell)}

	tests := []struct {
		name     string
		settings Settings
		cell     core.Cell
		mode     core.FilterMode
		want     Match
		wantOK   bool
	}{
		{
			name:   "revealed geyser keyed by output element",
			cell:   geyserCell("Steam", false),
			mode:   core.ModeGeysers,
			want:   Match{Key: "Steam", Name: "Steam", Ref: core.ElementRef("Steam")},
			wantOK: true,
		},
		{
			name: "buried geyser hidden by default",
			cell: geyserCell("Steam", true),
			mode: core.ModeGeysers,
		},
		{
			name:     "buried geyser shown with override",
			settings: Settings{ShowBuriedGeysers: true},
			cell:     geyserCell("Steam", true),
			mode:     core.ModeGeysers,
			want:     Match{Key: "Steam", Name: "Steam", Ref: core.ElementRef("Steam")},
			wantOK:   true,
		},
		{
			name:   "unknown geyser output falls back to building name",
			cell:   geyserCell("Jelly", false),
			mode:   core.ModeGeysers,
			want:   Match{Key: "Jelly", Name: "Geyser", Ref: core.ElementRef("Jelly")},
			wantOK: true,
		},
		{
			name:   "oil well maps to crude oil",
			cell:   core.Cell{Building: oilWell},
			mode:   core.ModeGeysers,
			want:   Match{Key: "CrudeOil", Name: "Crude Oil", Ref: core.ElementRef(core.ElementCrudeOil)},
			wantOK: true,
		},
		{
			name: "buried oil well hidden",
			cell: core.Cell{Building: oilWell, Element: core.CellElement{Solid: true}},
			mode: core.ModeGeysers,
		},
		{
			name: "geyser ignored outside geyser mode",
			cell: geyserCell("Steam", false),
			mode: core.ModeBuildings,
		},
		{
			name:   "poi building",
			cell:   core.Cell{Building: portal},
			mode:   core.ModeBuildings,
			want:   Match{Key: "WarpPortal", Name: "Teleporter Transmitter", Ref: core.NameRef("WarpPortal"), Member: 41},
			wantOK: true,
		},
		{
			name: "non-poi building",
			cell: core.Cell{Building: ladder},
			mode: core.ModeBuildings,
		},
		{
			name:   "critter",
			cell:   core.Cell{Pickupable: critter},
			mode:   core.ModeCritters,
			want:   Match{Key: "Mole", Name: "Shove Vole", Ref: core.NameRef("Mole"), Member: 21},
			wantOK: true,
		},
		{
			name: "burrowed critter hidden",
			cell: core.Cell{Pickupable: critter, Element: core.CellElement{ID: "Granite", Solid: true}},
			mode: core.ModeCritters,
		},
		{
			name:     "burrowed critter shown with override",
			settings: Settings{ShowBuriedCritters: true},
			cell:     core.Cell{Pickupable: critter, Element: core.CellElement{ID: "Granite", Solid: true}},
			mode:     core.ModeCritters,
			want:     Match{Key: "Mole", Name: "Shove Vole", Ref: core.NameRef("Mole"), Member: 21},
			wantOK:   true,
		},
		{
			name: "untagged pickupable is not a critter",
			cell: core.Cell{Pickupable: egg},
			mode: core.ModeCritters,
		},
		{
			name:   "plant",
			cell:   core.Cell{Building: plant},
			mode:   core.ModePlants,
			want:   Match{Key: "SpiceVine", Name: "Pincha Pepperplant", Ref: core.NameRef("SpiceVine"), Member: 31},
			wantOK: true,
		},
		{
			name: "critter mode ignores plants",
			cell: core.Cell{Building: plant},
			mode: core.ModeCritters,
		},
		{
			name:   "biome",
			cell:   core.Cell{Zone: core.ZoneFrozenWastes, Building: portal},
			mode:   core.ModeBiomes,
			want:   Match{Key: "FrozenWastes", Name: "Tundra", Ref: core.BiomeRef(core.ZoneFrozenWastes)},
			wantOK: true,
		},
		{
			name:   "unmapped biome is Unknown",
			cell:   core.Cell{Zone: core.ZoneType(40)},
			mode:   core.ModeBiomes,
			want:   Match{Key: "Zone40", Name: "Unknown", Ref: core.BiomeRef(core.ZoneType(40))},
			wantOK: true,
		},
		{
			name: "unknown mode",
			cell: core.Cell{Building: portal},
			mode: core.FilterMode(99),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tbl, tt.settings)
			got, ok := c.Classify(tt.cell, tt.mode)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyMalformedCellsAreSkipped(t *testing.T) {
	c := New(tables.Default(), Settings{ShowBuriedGeysers: true, ShowBuriedCritters: true})

	cells := map[string]core.Cell{
		"empty cell":         {},
		"geyser without out": {Building: &core.Building{PrefabID: "GeyserGeneric", Geyser: &core.Geyser{}}},
		"nameless critter":   {Pickupable: &core.Pickupable{Tags: core.NewTags(core.TagCreature)}},
		"nameless plant":     {Building: &core.Building{Tags: core.NewTags(core.TagPlant)}},
	}

	for name, cell := range cells {
		t.Run(name, func(t *testing.T) {
			for _, mode := range []core.FilterMode{core.ModeGeysers, core.ModeBuildings, core.ModeCritters, core.ModePlants} {
				_, ok := c.Classify(cell, mode)
				assert.False(t, ok, mode.String())
			}
		})
	}
}

func TestObjectNameFallsBackToPrefab(t *testing.T) {
	c := New(tables.Default(), Settings{})
	got, ok := c.Classify(core.Cell{Building: &core.Building{Handle: 5, PrefabID: "GeneShuffler"}}, core.ModeBuildings)
	require.True(t, ok)
	assert.Equal(t, "GeneShuffler", got.Name)
	assert.Equal(t, core.Handle(5), got.Member)
}

func TestSettingsUpdate(t *testing.T) {
	c := New(tables.Default(), Settings{})
	cell := geyserCell("Water", true)

	_, ok := c.Classify(cell, core.ModeGeysers)
	assert.False(t, ok)

	c.SetSettings(Settings{ShowBuriedGeysers: true})
	assert.True(t, c.Settings().ShowBuriedGeysers)
	_, ok = c.Classify(cell, core.ModeGeysers)
	assert.True(t, ok)
}
