// Package classify decides which overlay category, if any, a cell belongs to.
package classify

import (
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// POIBuildings are the building prefabs listed in Buildings mode.
var POIBuildings = []string{
	"CryoTank",
	"ExobaseHeadquartersComplete",
	"GeneShuffler",
	"HeadquartersComplete",
	"MassiveHeatSinkComplete",
	"WarpConduitReceiverComplete",
	"WarpConduitSenderComplete",
	"WarpPortal",
	"WarpReceiver",
}

// Settings controls which buried objects are still classified.
type Settings struct {
	ShowBuriedGeysers  bool
	ShowBuriedCritters bool
}

// Names resolves display names from the lookup tables.
type Names interface {
	ElementName(id core.ElementID) (string, bool)
	BiomeName(z core.ZoneType) string
}

// Match is a classified category for one cell.
type Match struct {
	Key    string
	Name   string
	Ref    core.ColorReference
	Member core.Handle // core.NoHandle when the category tracks no members
}

// Classifier evaluates the per-mode rules against a cell.
type Classifier struct {
	names    Names
	settings Settings
	poi      map[string]struct{}
}

func New(names Names, settings Settings) *Classifier {
	poi := make(map[string]struct{}, len(POIBuildings))
	for _, id := range POIBuildings {
		poi[id] = struct{}{}
	}
	return &Classifier{names: names, settings: settings, poi: poi}
}

func (c *Classifier) Settings() Settings { return c.settings }

func (c *Classifier) SetSettings(s Settings) { c.settings = s }

// Classify runs the rules for mode against cell; first match wins.
// Cells with incomplete descriptors produce no match.
func (c *Classifier) Classify(cell core.Cell, mode core.FilterMode) (Match, bool) {
	b := cell.Building
	p := cell.Pickupable

	switch mode {
	case core.ModeGeysers:
		if b == nil || !c.geyserRevealed(cell) {
			return Match{}, false
		}
		if b.IsGeyser() {
			if b.Geyser.Output == "" {
				return Match{}, false
			}
			return c.elementMatch(b.Geyser.Output, b.Name), true
		}
		if b.HasTag(core.TagOilWell) {
			return c.elementMatch(core.ElementCrudeOil, b.Name), true
		}

	case core.ModeBuildings:
		if b == nil {
			return Match{}, false
		}
		if _, ok := c.poi[b.PrefabID]; ok {
			return objectMatch(b.PrefabID, b.Name, b.Handle), true
		}

	case core.ModeCritters:
		if p != nil && p.PrefabID != "" && c.critterRevealed(cell) && p.HasTag(core.TagCreature) {
			return objectMatch(p.PrefabID, p.Name, p.Handle), true
		}

	case core.ModePlants:
		if b != nil && b.PrefabID != "" && b.HasTag(core.TagPlant) {
			return objectMatch(b.PrefabID, b.Name, b.Handle), true
		}

	case core.ModeBiomes:
		return Match{
			Key:  cell.Zone.String(),
			Name: c.names.BiomeName(cell.Zone),
			Ref:  core.BiomeRef(cell.Zone),
		}, true
	}

	return Match{}, false
}

// geyserRevealed hides geysers buried in solid tiles unless configured otherwise.
func (c *Classifier) geyserRevealed(cell core.Cell) bool {
	return c.settings.ShowBuriedGeysers || !cell.Element.Solid
}

// critterRevealed hides burrowed critters (e.g. shove voles) unless configured otherwise.
func (c *Classifier) critterRevealed(cell core.Cell) bool {
	return c.settings.ShowBuriedCritters || !cell.Element.Solid
}

func (c *Classifier) elementMatch(id core.ElementID, fallbackName string) Match {
	name, ok := c.names.ElementName(id)
	if !ok {
		name = fallbackName
	}
	if name == "" {
		name = string(id)
	}
	return Match{Key: string(id), Name: name, Ref: core.ElementRef(id)}
}

func objectMatch(prefabID, name string, h core.Handle) Match {
	if name == "" {
		name = prefabID
	}
	return Match{Key: prefabID, Name: name, Ref: core.NameRef(prefabID), Member: h}
}
