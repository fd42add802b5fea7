// Package overlay wires the classifier, the legend registry and the filter
// mode state into one map overlay bound to a cell provider.
package overlay

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/classify"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/deriver"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/filter"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/legend"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/tables"
)

// noLegend is the legend world before the first rebuild.
const noLegend = -1

// Settings are the user-facing overlay options.
type Settings struct {
	ShowBuriedGeysers  bool
	ShowBuriedCritters bool
	CountObjects       bool
}

func (s Settings) classify() classify.Settings {
	return classify.Settings{
		ShowBuriedGeysers:  s.ShowBuriedGeysers,
		ShowBuriedCritters: s.ShowBuriedCritters,
	}
}

// Options configures New. Provider is required; everything else defaults.
type Options struct {
	Provider        core.CellProvider
	Tables          *tables.Tables
	Settings        Settings
	Mode            core.FilterMode
	SingleDarkBoost bool
	Bus             *events.Bus
	Logger          zerolog.Logger
}

// Overlay is one map overlay session. All methods are safe for concurrent
// use; a rebuild is never observed half done.
type Overlay struct {
	mu          sync.RWMutex
	id          string
	provider    core.CellProvider
	tables      *tables.Tables
	deriver     *deriver.Deriver
	classifier  *classify.Classifier
	registry    *legend.Registry
	modes       *filter.State
	bus         *events.Bus
	settings    Settings
	legendWorld int
	logger      zerolog.Logger
}

func New(opts Options) (*Overlay, error) {
	if opts.Provider == nil {
		return nil, core.ErrNoCellProvider
	}

	tbl := opts.Tables
	if tbl == nil {
		tbl = tables.Default()
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus(opts.Logger)
	}

	var deriverOpts []deriver.Option
	if opts.SingleDarkBoost {
		deriverOpts = append(deriverOpts, deriver.WithSingleBoost())
	}
	d := deriver.New(tbl, deriverOpts...)

	id := uuid.New().String()
	logger := opts.Logger.With().
		Str("component", "overlay").
		Str("session_id", id).
		Logger()

	o := &Overlay{
		id:          id,
		provider:    opts.Provider,
		tables:      tbl,
		deriver:     d,
		classifier:  classify.New(tbl, opts.Settings.classify()),
		registry:    legend.NewRegistry(d, logger),
		modes:       filter.NewState(opts.Mode, logger, filter.WithPublisher(bus, id)),
		bus:         bus,
		settings:    opts.Settings,
		legendWorld: noLegend,
		logger:      logger,
	}

	bus.SubscribeFunc(events.TypeModeChanged, func(e events.Event) {
		if e.SessionID() == o.id {
			o.Rebuild()
		}
	})

	logger.Info().
		Str("mode", o.modes.Active().String()).
		Bool("single_dark_boost", opts.SingleDarkBoost).
		Msg("Overlay created")

	return o, nil
}

// ID returns the session id stamped on every event this overlay publishes.
func (o *Overlay) ID() string { return o.id }

// Bus returns the event bus the overlay publishes to.
func (o *Overlay) Bus() *events.Bus { return o.bus }

// Tables returns the lookup tables in use.
func (o *Overlay) Tables() *tables.Tables { return o.tables }

// Rebuild clears the registry and rescans every cell of the active world as
// one locked pass.
func (o *Overlay) Rebuild() {
	start := time.Now()
	mode := o.modes.Active()

	o.mu.Lock()
	o.registry.Clear()
	world := o.provider.WorldID()
	scanned, skipped := 0, 0
	for i := 0; i < o.provider.CellCount(); i++ {
		if !o.provider.InActiveWorld(i) {
			continue
		}
		scanned++
		if err := o.classifyLocked(i, mode); err != nil {
			skipped++
			o.logger.Debug().Err(err).Msg("Cell skipped")
		}
	}
	o.legendWorld = world
	categories := o.registry.Len()
	o.mu.Unlock()

	elapsed := time.Since(start)
	o.logger.Debug().
		Str("mode", mode.String()).
		Int("world", world).
		Int("cells", scanned).
		Int("categories", categories).
		Int("skipped", skipped).
		Dur("duration", elapsed).
		Msg("Legend rebuilt")

	o.bus.Publish(events.NewLegendRebuiltEvent(o.id, mode, world, scanned, categories, skipped, elapsed))
}

// ClassifyAndRegister classifies one cell under the active mode and records
// the match, if any.
func (o *Overlay) ClassifyAndRegister(cell int) error {
	mode := o.modes.Active()

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.classifyLocked(cell, mode)
}

func (o *Overlay) classifyLocked(i int, mode core.FilterMode) error {
	if i < 0 || i >= o.provider.CellCount() {
		return core.WrapCellError(i, "classify", core.ErrCellOutOfRange)
	}
	cell, ok := o.provider.Cell(i)
	if !ok {
		return core.WrapCellError(i, "classify", core.ErrCellOutOfRange)
	}

	match, ok := o.classifier.Classify(cell, mode)
	if !ok {
		return nil
	}
	o.registry.Upsert(match.Key, match.Name, match.Ref, match.Member)
	return nil
}

// BuildLegendEntries rebuilds the registry and returns the legend, the way
// opening the legend does.
func (o *Overlay) BuildLegendEntries() []legend.Entry {
	o.Rebuild()
	return o.Legend()
}

// Legend returns the legend for the current registry contents.
func (o *Overlay) Legend() []legend.Entry {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.registry.Build(o.settings.CountObjects)
}

// Categories returns copies of the registered categories in legend order.
func (o *Overlay) Categories() []legend.Category {
	o.mu.RLock()
	defer o.mu.RUnlock()

	cats := o.registry.Categories()
	out := make([]legend.Category, 0, len(cats))
	for _, c := range cats {
		cp, _ := o.registry.Category(c.Key)
		out = append(out, cp)
	}
	return out
}

// ColorFor looks up a category colour by key.
func (o *Overlay) ColorFor(key string) (core.Color, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.registry.ColorFor(key)
}

// BackgroundColor is the per-cell fill. Unobtanium always shows in Geysers
// mode; Biomes mode paints each cell with its zone's category colour.
// Everything else is black. The registry is not modified.
func (o *Overlay) BackgroundColor(i int) core.Color {
	cell, ok := o.provider.Cell(i)
	if !ok {
		return core.Black
	}

	switch o.modes.Active() {
	case core.ModeGeysers:
		if cell.Element.ID == core.ElementUnobtanium {
			return o.deriver.Derive(core.ElementRef(core.ElementUnobtanium))
		}
	case core.ModeBiomes:
		if c, ok := o.ColorFor(cell.Zone.String()); ok {
			return c
		}
	}
	return core.Black
}

// CellMarker reports the category colour of the object in cell under the
// active mode, if its category is registered. Biome mode has no markers.
func (o *Overlay) CellMarker(i int) (core.Color, bool) {
	mode := o.modes.Active()
	if mode == core.ModeBiomes {
		return core.Transparent, false
	}
	cell, ok := o.provider.Cell(i)
	if !ok {
		return core.Transparent, false
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	match, ok := o.classifier.Classify(cell, mode)
	if !ok {
		return core.Transparent, false
	}
	return o.registry.ColorFor(match.Key)
}

// Update runs once per frame. It rebuilds when the provider switched worlds
// since the last legend build and returns the objects to highlight.
func (o *Overlay) Update() []legend.Target {
	o.mu.RLock()
	built := o.legendWorld
	o.mu.RUnlock()

	if current := o.provider.WorldID(); current != built {
		if built != noLegend {
			o.logger.Info().Int("from_world", built).Int("to_world", current).Msg("Active world changed")
			o.bus.Publish(events.NewContextChangedEvent(o.id, built, current))
		}
		o.Rebuild()
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.registry.Targets()
}

// ActiveMode returns the current filter mode.
func (o *Overlay) ActiveMode() core.FilterMode { return o.modes.Active() }

// SetActiveMode switches mode; the registry is rebuilt before it returns.
func (o *Overlay) SetActiveMode(mode core.FilterMode) error {
	if err := o.modes.SetActive(mode); err != nil {
		return core.WrapModeError(mode, "activate", err)
	}
	return nil
}

// ApplyFilters takes a toggle map from a legend filter UI.
func (o *Overlay) ApplyFilters(toggles map[core.FilterMode]bool) error {
	if err := o.modes.OnFiltersChanged(toggles); err != nil {
		return fmt.Errorf("apply filters: %w", err)
	}
	return nil
}

// CycleMode steps through the modes in canonical order.
func (o *Overlay) CycleMode(step int) core.FilterMode { return o.modes.Cycle(step) }

// ToggleStates reports every mode with exactly the active one on.
func (o *Overlay) ToggleStates() map[core.FilterMode]bool { return o.modes.ToggleStates() }

// ModeHistory returns the recorded mode transitions.
func (o *Overlay) ModeHistory() []filter.Transition { return o.modes.History() }

// Settings returns the current settings.
func (o *Overlay) Settings() Settings {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.settings
}

// ApplySettings replaces the settings and rebuilds when they changed.
func (o *Overlay) ApplySettings(s Settings) {
	o.mu.Lock()
	if s == o.settings {
		o.mu.Unlock()
		return
	}
	o.settings = s
	o.classifier.SetSettings(s.classify())
	o.mu.Unlock()

	o.logger.Info().
		Bool("show_buried_geysers", s.ShowBuriedGeysers).
		Bool("show_buried_critters", s.ShowBuriedCritters).
		Bool("count_objects", s.CountObjects).
		Msg("Settings applied")

	o.bus.Publish(events.NewSettingsChangedEvent(o.id, s.ShowBuriedGeysers, s.ShowBuriedCritters, s.CountObjects))
	o.Rebuild()
}
