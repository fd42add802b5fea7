package overlay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/legend"
	"github.com/mitchelldurbincs/mapoverlay/internal/testutil"
	"github.com/mitchelldurbincs/mapoverlay/internal/world"
)

func newTestOverlay(t *testing.T, provider core.CellProvider, mode core.FilterMode, settings Settings) *Overlay {
	t.Helper()
	o, err := New(Options{
		Provider: provider,
		Mode:     mode,
		Settings: settings,
		Logger:   testutil.NopLogger(),
	})
	require.NoError(t, err)
	return o
}

func keys(cats []legend.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Key)
	}
	return out
}

func TestNewRequiresProvider(t *testing.T) {
	_, err := New(Options{Logger: testutil.NopLogger()})
	assert.ErrorIs(t, err, core.ErrNoCellProvider)
}

func TestGeyserScenario(t *testing.T) {
	g := testutil.CreateTestGrid(t, 4, 4, 1)
	testutil.PlaceGeyser(t, g, 0, 1, 1, "Steam")

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	o.Rebuild()

	cats := o.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Steam", cats[0].Key)
	assert.Equal(t, "Steam", cats[0].Name)
	assert.Greater(t, cats[0].Color.A, 0.0)
	assert.Equal(t, 0, cats[0].MemberCount(), "geysers record no members")
	assert.Empty(t, o.Update())

	entries := o.Legend()
	require.Len(t, entries, 1)
	assert.Equal(t, "Steam", entries[0].Name)
}

func TestBuriedGeysers(t *testing.T) {
	g := testutil.CreateTestGrid(t, 4, 4, 1)
	testutil.PlaceGeyser(t, g, 0, 1, 1, "Water")
	testutil.PlaceBuilding(t, g, 0, 2, 2, "OilWell", "Oil Reservoir", core.TagOilWell)
	testutil.Bury(t, g, 0, 1, 1)

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	o.Rebuild()
	assert.Equal(t, []string{"CrudeOil"}, keys(o.Categories()))

	var changed []*events.SettingsChangedEvent
	o.Bus().SubscribeFunc(events.TypeSettingsChanged, func(e events.Event) {
		changed = append(changed, e.(*events.SettingsChangedEvent))
	})

	o.ApplySettings(Settings{ShowBuriedGeysers: true})
	assert.ElementsMatch(t, []string{"CrudeOil", "Water"}, keys(o.Categories()))
	require.Len(t, changed, 1)
	assert.True(t, changed[0].ShowBuriedGeysers)

	o.ApplySettings(Settings{ShowBuriedGeysers: true})
	assert.Len(t, changed, 1, "unchanged settings publish nothing")
	assert.Equal(t, Settings{ShowBuriedGeysers: true}, o.Settings())
}

func TestBuildingsScenario(t *testing.T) {
	g := testutil.CreateTestGrid(t, 4, 4, 1)
	cryo := testutil.PlaceBuilding(t, g, 0, 0, 0, "CryoTank", "Cryo Tank")
	portal := testutil.PlaceBuilding(t, g, 0, 3, 3, "WarpPortal", "Teleporter")
	testutil.PlaceBuilding(t, g, 0, 2, 0, "Ladder", "Ladder")

	o := newTestOverlay(t, g, core.ModeBuildings, Settings{})
	o.Rebuild()

	cryoColor, ok := o.ColorFor("CryoTank")
	require.True(t, ok)
	portalColor, ok := o.ColorFor("WarpPortal")
	require.True(t, ok)
	assert.Equal(t, core.NewColor(0.5, 0.5, 1, 1), cryoColor)
	assert.Equal(t, core.NewColor(0.75, 0, 0.5, 1), portalColor)
	assert.NotEqual(t, cryoColor, portalColor)

	_, ok = o.ColorFor("Ladder")
	assert.False(t, ok, "only points of interest are listed")

	targets := o.Update()
	require.Len(t, targets, 2)
	assert.Equal(t, cryo, targets[0].Handle)
	assert.Equal(t, portal, targets[1].Handle)
	assert.Equal(t, portalColor, targets[1].Color)
}

func TestModeRoundTrip(t *testing.T) {
	config := world.DefaultGeneratorConfig(40, 30, 1)
	g := world.NewGenerator(config, testutil.NewTestRNG(99)).Generate()

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{ShowBuriedGeysers: true, CountObjects: true})
	before := o.BuildLegendEntries()
	beforeCats := o.Categories()
	require.NotEmpty(t, beforeCats)

	require.NoError(t, o.SetActiveMode(core.ModeBiomes))
	biomes := o.Categories()
	require.NotEmpty(t, biomes)
	for _, c := range biomes {
		zone, ok := core.ParseZoneType(c.Key)
		require.True(t, ok, c.Key)
		assert.Equal(t, o.Tables().BiomeName(zone), c.Name)
		assert.Equal(t, 1.0, c.Color.A)
	}

	require.NoError(t, o.SetActiveMode(core.ModeGeysers))
	assert.Equal(t, beforeCats, o.Categories())
	assert.Equal(t, before, o.Legend())
}

func TestModeChangeRebuilds(t *testing.T) {
	g := testutil.CreateTestGrid(t, 4, 4, 1)
	testutil.PlaceGeyser(t, g, 0, 0, 0, "Steam")
	testutil.PlaceCritter(t, g, 0, 1, 1, "Hatch", "Hatch")

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	var rebuilt []*events.LegendRebuiltEvent
	o.Bus().SubscribeFunc(events.TypeLegendRebuilt, func(e events.Event) {
		rebuilt = append(rebuilt, e.(*events.LegendRebuiltEvent))
	})

	require.NoError(t, o.SetActiveMode(core.ModeCritters))
	require.Len(t, rebuilt, 1)
	assert.Equal(t, core.ModeCritters, rebuilt[0].Mode)
	assert.Equal(t, 16, rebuilt[0].Cells)
	assert.Equal(t, 1, rebuilt[0].Categories)
	assert.Equal(t, o.ID(), rebuilt[0].SessionID())
	assert.Equal(t, []string{"Hatch"}, keys(o.Categories()))

	err := o.SetActiveMode(core.FilterMode(9))
	assert.ErrorIs(t, err, core.ErrUnknownMode)

	assert.Equal(t, core.ModePlants, o.CycleMode(2))
	assert.Empty(t, o.Categories())
	require.Len(t, o.ModeHistory(), 2)

	require.NoError(t, o.ApplyFilters(map[core.FilterMode]bool{core.ModeGeysers: true}))
	assert.Equal(t, core.ModeGeysers, o.ActiveMode())
	assert.True(t, o.ToggleStates()[core.ModeGeysers])
	assert.Equal(t, []string{"Steam"}, keys(o.Categories()))

	err = o.ApplyFilters(map[core.FilterMode]bool{})
	assert.ErrorIs(t, err, core.ErrNoActiveMode)
}

func TestOverlaysShareBus(t *testing.T) {
	bus := events.NewBus(testutil.NopLogger())
	g := testutil.CreateTestGrid(t, 2, 2, 1)
	testutil.PlaceCritter(t, g, 0, 0, 0, "Hatch", "Hatch")

	a, err := New(Options{Provider: g, Bus: bus, Logger: testutil.NopLogger()})
	require.NoError(t, err)
	b, err := New(Options{Provider: g, Bus: bus, Logger: testutil.NopLogger()})
	require.NoError(t, err)

	require.NoError(t, a.SetActiveMode(core.ModeCritters))
	assert.Len(t, a.Categories(), 1)
	assert.Empty(t, b.Categories(), "mode changes only rebuild their own overlay")
}

func TestCountingLegend(t *testing.T) {
	g := testutil.CreateTestGrid(t, 4, 4, 1)
	testutil.PlaceCritter(t, g, 0, 0, 0, "Hatch", "Hatch")
	testutil.PlaceCritter(t, g, 0, 1, 0, "Hatch", "Hatch")
	testutil.PlaceCritter(t, g, 0, 2, 0, "Mole", "Shove Vole")
	testutil.Bury(t, g, 0, 2, 0)

	o := newTestOverlay(t, g, core.ModeCritters, Settings{CountObjects: true})
	entries := o.BuildLegendEntries()
	require.Len(t, entries, 1, "buried critters are hidden")
	assert.Equal(t, "Hatch (2)", entries[0].Name)

	o.ApplySettings(Settings{CountObjects: true, ShowBuriedCritters: true})
	names := []string{}
	for _, e := range o.Legend() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Hatch (2)", "Shove Vole (1)"}, names)
}

func TestUpdateDetectsWorldChange(t *testing.T) {
	g := testutil.CreateTestGrid(t, 3, 3, 2)
	testutil.PlaceGeyser(t, g, 0, 0, 0, "Water")
	testutil.PlaceGeyser(t, g, 1, 1, 1, "Magma")

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	var changes []*events.ContextChangedEvent
	o.Bus().SubscribeFunc(events.TypeContextChanged, func(e events.Event) {
		changes = append(changes, e.(*events.ContextChangedEvent))
	})

	o.Update()
	assert.Equal(t, []string{"Water"}, keys(o.Categories()), "first frame builds the legend")
	assert.Empty(t, changes)

	require.NoError(t, g.SetActiveWorld(1))
	o.Update()
	assert.Equal(t, []string{"Magma"}, keys(o.Categories()))
	require.Len(t, changes, 1)
	assert.Equal(t, 0, changes[0].FromWorld)
	assert.Equal(t, 1, changes[0].ToWorld)

	o.Update()
	assert.Len(t, changes, 1, "no change, no rebuild")
}

func TestClassifyAndRegister(t *testing.T) {
	g := testutil.CreateTestGrid(t, 2, 2, 1)
	testutil.PlaceBuilding(t, g, 0, 1, 0, "WarpReceiver", "Teleporter Receiver")

	o := newTestOverlay(t, g, core.ModeBuildings, Settings{})
	require.NoError(t, o.ClassifyAndRegister(0))
	assert.Empty(t, o.Categories())

	require.NoError(t, o.ClassifyAndRegister(1))
	require.NoError(t, o.ClassifyAndRegister(1))
	cats := o.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, 1, cats[0].MemberCount())

	err := o.ClassifyAndRegister(4)
	require.ErrorIs(t, err, core.ErrCellOutOfRange)
	var cellErr *core.CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 4, cellErr.Cell)
}

func TestRebuildAfterClearIsEmpty(t *testing.T) {
	g := testutil.CreateTestGrid(t, 2, 2, 1)
	testutil.PlaceGeyser(t, g, 0, 0, 0, "Steam")

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	o.Rebuild()
	require.Len(t, o.Categories(), 1)

	require.NoError(t, g.Update(0, func(c *core.Cell) { c.Building = nil }))
	o.Rebuild()
	assert.Empty(t, o.Categories())
	assert.Empty(t, o.Legend())
}

func TestBackgroundColor(t *testing.T) {
	g := testutil.CreateTestGrid(t, 2, 2, 1)
	require.NoError(t, g.SetElement(0, core.ElementUnobtanium, true))
	require.NoError(t, g.SetZone(1, core.ZoneOcean))

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	neutronium := o.BackgroundColor(0)
	assert.Equal(t, core.NewColor(1, 0.25, 0.75, 1), neutronium)
	assert.Equal(t, core.Black, o.BackgroundColor(1))
	assert.Equal(t, core.Black, o.BackgroundColor(-1))
	assert.Empty(t, o.Categories(), "background queries do not register categories")

	require.NoError(t, o.SetActiveMode(core.ModeBiomes))
	ocean, ok := o.ColorFor(core.ZoneOcean.String())
	require.True(t, ok)
	assert.Equal(t, ocean, o.BackgroundColor(1))
	assert.Equal(t, 1.0, ocean.A)
	sandstone, _ := o.ColorFor(core.ZoneSandstone.String())
	assert.Equal(t, sandstone, o.BackgroundColor(0))

	require.NoError(t, o.SetActiveMode(core.ModePlants))
	assert.Equal(t, core.Black, o.BackgroundColor(0))
}

func TestCellMarker(t *testing.T) {
	g := testutil.CreateTestGrid(t, 3, 1, 1)
	testutil.PlaceGeyser(t, g, 0, 0, 0, "Steam")
	testutil.PlaceGeyser(t, g, 0, 1, 0, "Water")
	testutil.Bury(t, g, 0, 1, 0)

	o := newTestOverlay(t, g, core.ModeGeysers, Settings{})
	_, ok := o.CellMarker(0)
	assert.False(t, ok, "nothing registered before the first rebuild")

	o.Rebuild()
	steam, ok := o.CellMarker(0)
	require.True(t, ok)
	want, _ := o.ColorFor("Steam")
	assert.Equal(t, want, steam)

	_, ok = o.CellMarker(1)
	assert.False(t, ok, "buried geyser stays hidden")
	_, ok = o.CellMarker(2)
	assert.False(t, ok)
	_, ok = o.CellMarker(7)
	assert.False(t, ok)

	require.NoError(t, o.SetActiveMode(core.ModeBiomes))
	_, ok = o.CellMarker(0)
	assert.False(t, ok, "biomes paint the background instead")
}
