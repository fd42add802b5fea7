// Package hud holds the viewer-independent parts of the map viewers: key
// bindings, the action controller, and legend/status layout.
package hud

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// ErrQuit is returned by Apply for ActionQuit.
var ErrQuit = errors.New("quit requested")

// Action is a viewer command.
type Action int

const (
	ActionNone Action = iota
	ActionNextMode
	ActionPrevMode
	ActionNextWorld
	ActionPrevWorld
	ActionToggleCount
	ActionToggleBuriedGeysers
	ActionToggleBuriedCritters
	ActionToggleMarkers
	ActionQuit
	actionSelectMode // + core.FilterMode
)

// SelectMode is the action that activates m directly.
func SelectMode(m core.FilterMode) Action {
	return actionSelectMode + Action(m)
}

func (a Action) mode() (core.FilterMode, bool) {
	m := core.FilterMode(a - actionSelectMode)
	return m, a >= actionSelectMode && m.Valid()
}

// ActionForRune maps a typed character to its action.
func ActionForRune(r rune) Action {
	switch r {
	case 'n', ']':
		return ActionNextMode
	case 'p', '[':
		return ActionPrevMode
	case 'w':
		return ActionNextWorld
	case 'W':
		return ActionPrevWorld
	case 'c':
		return ActionToggleCount
	case 'g':
		return ActionToggleBuriedGeysers
	case 'b':
		return ActionToggleBuriedCritters
	case 'm':
		return ActionToggleMarkers
	case 'q':
		return ActionQuit
	}
	if r >= '1' && r < '1'+rune(len(core.AllFilterModes())) {
		return SelectMode(core.AllFilterModes()[r-'1'])
	}
	return ActionNone
}

// Help lists the key bindings.
func Help() string {
	return "1-5 mode  n/p next/prev mode  w/W world  c count  g buried geysers  b buried critters  m markers  q quit"
}

// Overlay is what the controller drives.
type Overlay interface {
	SetActiveMode(core.FilterMode) error
	CycleMode(step int) core.FilterMode
	Settings() overlay.Settings
	ApplySettings(overlay.Settings)
}

// Worlds switches the active world.
type Worlds interface {
	CycleWorld(step int) int
}

// Controller applies actions to an overlay and its world.
type Controller struct {
	overlay     Overlay
	worlds      Worlds
	showMarkers bool
	logger      zerolog.Logger
}

func NewController(o Overlay, w Worlds, showMarkers bool, logger zerolog.Logger) *Controller {
	return &Controller{
		overlay:     o,
		worlds:      w,
		showMarkers: showMarkers,
		logger:      logger.With().Str("component", "hud_controller").Logger(),
	}
}

// ShowMarkers reports whether object markers are drawn.
func (c *Controller) ShowMarkers() bool { return c.showMarkers }

// Apply runs a and returns a short status message. ActionQuit returns ErrQuit.
func (c *Controller) Apply(a Action) (string, error) {
	if m, ok := a.mode(); ok {
		if err := c.overlay.SetActiveMode(m); err != nil {
			return "", err
		}
		return "Mode: " + m.String(), nil
	}

	s := c.overlay.Settings()
	switch a {
	case ActionNone:
		return "", nil
	case ActionNextMode:
		return "Mode: " + c.overlay.CycleMode(1).String(), nil
	case ActionPrevMode:
		return "Mode: " + c.overlay.CycleMode(-1).String(), nil
	case ActionNextWorld:
		return fmt.Sprintf("World %d", c.worlds.CycleWorld(1)), nil
	case ActionPrevWorld:
		return fmt.Sprintf("World %d", c.worlds.CycleWorld(-1)), nil
	case ActionToggleCount:
		s.CountObjects = !s.CountObjects
		c.overlay.ApplySettings(s)
		return "Counting " + onOff(s.CountObjects), nil
	case ActionToggleBuriedGeysers:
		s.ShowBuriedGeysers = !s.ShowBuriedGeysers
		c.overlay.ApplySettings(s)
		return "Buried geysers " + onOff(s.ShowBuriedGeysers), nil
	case ActionToggleBuriedCritters:
		s.ShowBuriedCritters = !s.ShowBuriedCritters
		c.overlay.ApplySettings(s)
		return "Buried critters " + onOff(s.ShowBuriedCritters), nil
	case ActionToggleMarkers:
		c.showMarkers = !c.showMarkers
		return "Markers " + onOff(c.showMarkers), nil
	case ActionQuit:
		return "", ErrQuit
	}

	c.logger.Warn().Int("action", int(a)).Msg("Unknown action")
	return "", fmt.Errorf("unknown action %d", int(a))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
