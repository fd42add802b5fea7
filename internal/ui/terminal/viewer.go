// Package terminal renders the map overlay in a terminal with tcell, one
// character per cell.
package terminal

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui/hud"
	"github.com/mitchelldurbincs/mapoverlay/internal/world"
)

const (
	markerRune = '●'
	swatchRune = '■'
	legendGap  = 2
)

// Viewer draws one overlay on a tcell screen.
type Viewer struct {
	screen     tcell.Screen
	overlay    *overlay.Overlay
	grid       *world.Grid
	controller *hud.Controller
	message    string
	logger     zerolog.Logger
}

// NewViewer takes an initialised screen.
func NewViewer(screen tcell.Screen, o *overlay.Overlay, grid *world.Grid, showMarkers bool, logger zerolog.Logger) *Viewer {
	logger = logger.With().Str("component", "terminal_viewer").Logger()
	return &Viewer{
		screen:     screen,
		overlay:    o,
		grid:       grid,
		controller: hud.NewController(o, grid, showMarkers, logger),
		message:    hud.Help(),
		logger:     logger,
	}
}

// Style converts an overlay colour to a tcell colour.
func Style(c core.Color) tcell.Color {
	n := c.NRGBA()
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	targets := v.overlay.Update()
	v.screen.Clear()

	world := v.grid.WorldID()
	for y := 0; y < v.grid.Height(); y++ {
		for x := 0; x < v.grid.Width(); x++ {
			idx := v.grid.Idx(world, x, y)
			style := tcell.StyleDefault.Background(Style(v.overlay.BackgroundColor(idx)))
			r := ' '
			if v.controller.ShowMarkers() {
				if c, ok := v.overlay.CellMarker(idx); ok {
					r = markerRune
					style = style.Foreground(Style(c))
				}
			}
			v.screen.SetContent(x, y, r, nil, style)
		}
	}

	left := v.grid.Width() + legendGap
	width, height := v.screen.Size()
	v.drawText(left, 0, v.overlay.ActiveMode().String(), tcell.StyleDefault.Bold(true))
	for i, row := range hud.LegendRows(v.overlay.Legend(), width-left-2) {
		y := i + 2
		if y >= height-2 {
			break
		}
		if row.Swatch {
			v.screen.SetContent(left, y, swatchRune, nil, tcell.StyleDefault.Foreground(Style(row.Color)))
		}
		v.drawText(left+2, y, row.Text, tcell.StyleDefault)
	}

	status := hud.Status(v.overlay.ActiveMode(), world, v.grid.Worlds(), v.overlay.Settings(), len(targets))
	v.drawText(0, height-2, status, tcell.StyleDefault.Reverse(true))
	v.drawText(0, height-1, v.message, tcell.StyleDefault.Dim(true))

	v.screen.Show()
}

func (v *Viewer) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// HandleKey applies the action bound to ev. It returns false when the viewer
// should stop.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	var action hud.Action
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab, tcell.KeyRight:
		action = hud.ActionNextMode
	case tcell.KeyBacktab, tcell.KeyLeft:
		action = hud.ActionPrevMode
	case tcell.KeyPgDn:
		action = hud.ActionNextWorld
	case tcell.KeyPgUp:
		action = hud.ActionPrevWorld
	case tcell.KeyRune:
		action = hud.ActionForRune(ev.Rune())
	}

	msg, err := v.controller.Apply(action)
	switch {
	case errors.Is(err, hud.ErrQuit):
		return false
	case err != nil:
		v.logger.Warn().Err(err).Msg("Action failed")
		v.message = err.Error()
	case msg != "":
		v.message = msg
	}
	return true
}

// Run draws and handles events until the user quits or ctx is done. The
// caller owns the screen and finalises it.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(events, quit)
	defer close(quit)

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
			v.Draw()
		}
	}
}
