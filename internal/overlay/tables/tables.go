// Package tables holds the static element and biome lookup data the overlay
// colours and names categories with.
package tables

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// UnknownBiomeName is shown for zones without a table entry.
const UnknownBiomeName = "Unknown"

//go:embed defaults.yaml
var defaultsYAML []byte

// ElementInfo is the table row for one element.
type ElementInfo struct {
	Name  string
	Color core.Color
}

// BiomeInfo is the table row for one zone type. Color keeps the table alpha.
type BiomeInfo struct {
	Name  string
	Color core.Color
}

// Tables is an immutable set of lookups.
type Tables struct {
	elements map[core.ElementID]ElementInfo
	biomes   map[core.ZoneType]BiomeInfo
	fallback core.Color
}

type fileFormat struct {
	FallbackColor string                  `yaml:"fallback_color"`
	Elements      map[string]elementEntry `yaml:"elements"`
	Biomes        map[string]biomeEntry   `yaml:"biomes"`
}

type elementEntry struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type biomeEntry struct {
	Name  string   `yaml:"name"`
	Color string   `yaml:"color"`
	Alpha *float64 `yaml:"alpha"`
}

// New builds tables from explicit rows. Nil maps are treated as empty.
func New(elements map[core.ElementID]ElementInfo, biomes map[core.ZoneType]BiomeInfo, fallback core.Color) *Tables {
	t := &Tables{
		elements: make(map[core.ElementID]ElementInfo, len(elements)),
		biomes:   make(map[core.ZoneType]BiomeInfo, len(biomes)),
		fallback: fallback,
	}
	for id, info := range elements {
		t.elements[id] = info
	}
	for z, info := range biomes {
		t.biomes[z] = info
	}
	return t
}

// Default returns the built-in tables.
func Default() *Tables {
	t := New(nil, nil, core.White)
	if err := t.merge(defaultsYAML); err != nil {
		panic("embedded lookup tables are invalid: " + err.Error())
	}
	return t
}

// Load returns the built-in tables with the file at path merged over them.
// An empty path yields the defaults. On failure the returned tables are still
// usable (defaults plus whatever parsed cleanly) and the error wraps
// core.ErrTablesLoad, so callers can log it and carry on.
func Load(path string) (*Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("%w: %w", core.ErrTablesLoad, err)
	}
	if err := t.merge(data); err != nil {
		return t, fmt.Errorf("%w: %s: %w", core.ErrTablesLoad, path, err)
	}
	return t, nil
}

// merge applies YAML rows over t. Bad rows are skipped and reported together.
func (t *Tables) merge(data []byte) error {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}

	var errs []error
	if f.FallbackColor != "" {
		c, err := core.ParseHex(f.FallbackColor)
		if err != nil {
			errs = append(errs, fmt.Errorf("fallback_color: %w", err))
		} else {
			t.fallback = c
		}
	}

	for _, id := range sortedKeys(f.Elements) {
		row := f.Elements[id]
		c, err := core.ParseHex(row.Color)
		if err != nil {
			errs = append(errs, fmt.Errorf("elements.%s: %w", id, err))
			continue
		}
		name := row.Name
		if name == "" {
			name = id
		}
		t.elements[core.ElementID(id)] = ElementInfo{Name: name, Color: c}
	}

	for _, key := range sortedKeys(f.Biomes) {
		row := f.Biomes[key]
		zone, ok := core.ParseZoneType(key)
		if !ok {
			errs = append(errs, fmt.Errorf("biomes.%s: unknown zone type", key))
			continue
		}
		c, err := core.ParseHex(row.Color)
		if err != nil {
			errs = append(errs, fmt.Errorf("biomes.%s: %w", key, err))
			continue
		}
		if row.Alpha != nil {
			c.A = *row.Alpha
		}
		name := row.Name
		if name == "" {
			name = UnknownBiomeName
		}
		t.biomes[zone] = BiomeInfo{Name: name, Color: c}
	}

	return errors.Join(errs...)
}

// ElementColor returns the substance colour for id.
func (t *Tables) ElementColor(id core.ElementID) (core.Color, bool) {
	info, ok := t.elements[id]
	return info.Color, ok
}

// ElementName returns the display name for id.
func (t *Tables) ElementName(id core.ElementID) (string, bool) {
	info, ok := t.elements[id]
	return info.Name, ok
}

// BiomeColor returns the zone colour as stored (alpha untouched). Unknown
// zones get the fallback colour and false.
func (t *Tables) BiomeColor(z core.ZoneType) (core.Color, bool) {
	info, ok := t.biomes[z]
	if !ok {
		return t.fallback, false
	}
	return info.Color, true
}

// BiomeName returns the human-readable biome name, or "Unknown".
func (t *Tables) BiomeName(z core.ZoneType) string {
	if info, ok := t.biomes[z]; ok {
		return info.Name
	}
	return UnknownBiomeName
}

// Fallback is the colour used when table data is missing.
func (t *Tables) Fallback() core.Color {
	return t.fallback
}

// Elements lists the known element IDs in sorted order.
func (t *Tables) Elements() []core.ElementID {
	ids := make([]core.ElementID, 0, len(t.elements))
	for id := range t.elements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
