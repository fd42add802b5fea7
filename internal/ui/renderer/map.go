package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

var (
	MarkerBorderColor = color.RGBA{0, 0, 0, 255}
	GridLineColor     = color.RGBA{30, 30, 30, 255}
)

// Layer is the overlay as seen by the map renderer.
type Layer interface {
	BackgroundColor(cell int) core.Color
	CellMarker(cell int) (core.Color, bool)
}

// Grid is the map geometry.
type Grid interface {
	Width() int
	Height() int
	WorldID() int
	Idx(world, x, y int) int
}

type MapRenderer struct {
	tileSize int
}

// NewMapRenderer returns a renderer ready to use.
func NewMapRenderer(tileSize int) *MapRenderer {
	return &MapRenderer{tileSize: tileSize}
}

// Size is the pixel size of the drawn map.
func (mr *MapRenderer) Size(g Grid) (int, int) {
	return g.Width() * mr.tileSize, g.Height() * mr.tileSize
}

// Draw renders the active world: one background-filled tile per cell and a
// centred marker for each classified object.
func (mr *MapRenderer) Draw(screen *ebiten.Image, g Grid, layer Layer, markers bool) {
	world := g.WorldID()
	size := float32(mr.tileSize)

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			idx := g.Idx(world, x, y)
			sx, sy := float32(x)*size, float32(y)*size

			vector.DrawFilledRect(screen, sx, sy, size, size, layer.BackgroundColor(idx), false)
			vector.StrokeRect(screen, sx, sy, size, size, 1, GridLineColor, false)

			if !markers {
				continue
			}
			if c, ok := layer.CellMarker(idx); ok {
				r := size / 3
				cx, cy := sx+size/2, sy+size/2
				vector.DrawFilledCircle(screen, cx, cy, r+1, MarkerBorderColor, true)
				vector.DrawFilledCircle(screen, cx, cy, r, c, true)
			}
		}
	}
}
