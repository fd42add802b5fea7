package ui

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/legend"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui/hud"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui/input"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui/renderer"
	"github.com/mitchelldurbincs/mapoverlay/internal/world"
)

var BackgroundColor = color.RGBA{R: 12, G: 12, B: 16, A: 255}

// OverlayGame is the ebiten window for one overlay session.
type OverlayGame struct {
	overlay        *overlay.Overlay
	grid           *world.Grid
	controller     *hud.Controller
	input          *input.Handler
	mapRenderer    *renderer.MapRenderer
	legendRenderer *renderer.LegendRenderer
	defaultFont    font.Face
	ui             config.UIConfig

	targets []legend.Target
	message string
	logger  zerolog.Logger
}

// NewOverlayGame creates a new Ebitengine game instance.
func NewOverlayGame(o *overlay.Overlay, grid *world.Grid, ui config.UIConfig, logger zerolog.Logger) *OverlayGame {
	logger = logger.With().Str("component", "ui").Logger()
	g := &OverlayGame{
		overlay:     o,
		grid:        grid,
		controller:  hud.NewController(o, grid, ui.Highlights, logger),
		input:       input.NewHandler(ui.TileSize),
		mapRenderer: renderer.NewMapRenderer(ui.TileSize),
		defaultFont: basicfont.Face7x13,
		ui:          ui,
		message:     hud.Help(),
		logger:      logger,
	}
	g.legendRenderer = renderer.NewLegendRenderer(g.defaultFont, ui.LegendWidth)
	return g
}

// Update applies input and refreshes the overlay.
func (g *OverlayGame) Update() error {
	for _, action := range g.input.Update() {
		msg, err := g.controller.Apply(action)
		switch {
		case errors.Is(err, hud.ErrQuit):
			return ebiten.Termination
		case err != nil:
			g.logger.Warn().Err(err).Msg("Action failed")
			g.message = err.Error()
		case msg != "":
			g.message = msg
		}
	}

	if x, y, ok := g.input.HoverTile(g.grid.Width(), g.grid.Height()); ok && g.input.Clicked() {
		g.message = g.describe(x, y)
	}

	g.targets = g.overlay.Update()
	return nil
}

func (g *OverlayGame) describe(x, y int) string {
	idx := g.grid.Idx(g.grid.WorldID(), x, y)
	cell, ok := g.grid.Cell(idx)
	if !ok {
		return ""
	}
	desc := fmt.Sprintf("(%d,%d) %s, %s", x, y, cell.Element.ID, g.overlay.Tables().BiomeName(cell.Zone))
	if b := cell.Building; b != nil {
		desc += ", " + b.Name
	}
	if p := cell.Pickupable; p != nil {
		desc += ", " + p.Name
	}
	return desc
}

// Draw renders the game screen.
func (g *OverlayGame) Draw(screen *ebiten.Image) {
	screen.Fill(BackgroundColor)

	g.mapRenderer.Draw(screen, g.grid, g.overlay, g.controller.ShowMarkers())

	mapW, mapH := g.mapRenderer.Size(g.grid)
	g.legendRenderer.Draw(screen, mapW, g.overlay.ActiveMode().String(), g.overlay.Legend())

	status := hud.Status(g.overlay.ActiveMode(), g.grid.WorldID(), g.grid.Worlds(), g.overlay.Settings(), len(g.targets))
	ebitenutil.DebugPrintAt(screen, status, 5, mapH+5)
	ebitenutil.DebugPrintAt(screen, g.message, 5, mapH+25)
}

// Layout defines the Ebitengine screen size.
func (g *OverlayGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.ui.Window.Width, g.ui.Window.Height
}
