package events

import (
	"time"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

const (
	TypeModeChanged     = "mode.changed"
	TypeContextChanged  = "context.changed"
	TypeLegendRebuilt   = "legend.rebuilt"
	TypeSettingsChanged = "settings.changed"
)

// ModeChangedEvent is published when the active filter mode switches.
// Receivers must clear and rescan their registry.
type ModeChangedEvent struct {
	BaseEvent
	From core.FilterMode `json:"from"`
	To   core.FilterMode `json:"to"`
}

func NewModeChangedEvent(session string, from, to core.FilterMode) *ModeChangedEvent {
	return &ModeChangedEvent{
		BaseEvent: BaseEvent{EventType: TypeModeChanged, Time: time.Now(), Session: session},
		From:      from,
		To:        to,
	}
}

// ContextChangedEvent is published when the active world differs from the
// one the legend was built for.
type ContextChangedEvent struct {
	BaseEvent
	FromWorld int `json:"from_world"`
	ToWorld   int `json:"to_world"`
}

func NewContextChangedEvent(session string, from, to int) *ContextChangedEvent {
	return &ContextChangedEvent{
		BaseEvent: BaseEvent{EventType: TypeContextChanged, Time: time.Now(), Session: session},
		FromWorld: from,
		ToWorld:   to,
	}
}

// LegendRebuiltEvent summarises a completed clear+rescan pass.
type LegendRebuiltEvent struct {
	BaseEvent
	Mode       core.FilterMode `json:"mode"`
	World      int             `json:"world"`
	Cells      int             `json:"cells"`
	Categories int             `json:"categories"`
	Skipped    int             `json:"skipped"`
	Duration   time.Duration   `json:"duration"`
}

func NewLegendRebuiltEvent(session string, mode core.FilterMode, world, cells, categories, skipped int, d time.Duration) *LegendRebuiltEvent {
	return &LegendRebuiltEvent{
		BaseEvent:  BaseEvent{EventType: TypeLegendRebuilt, Time: time.Now(), Session: session},
		Mode:       mode,
		World:      world,
		Cells:      cells,
		Categories: categories,
		Skipped:    skipped,
		Duration:   d,
	}
}

// SettingsChangedEvent is published after overlay settings were reloaded.
type SettingsChangedEvent struct {
	BaseEvent
	ShowBuriedGeysers  bool `json:"show_buried_geysers"`
	ShowBuriedCritters bool `json:"show_buried_critters"`
	CountObjects       bool `json:"count_objects"`
}

func NewSettingsChangedEvent(session string, geysers, critters, counting bool) *SettingsChangedEvent {
	return &SettingsChangedEvent{
		BaseEvent:          BaseEvent{EventType: TypeSettingsChanged, Time: time.Now(), Session: session},
		ShowBuriedGeysers:  geysers,
		ShowBuriedCritters: critters,
		CountObjects:       counting,
	}
}
