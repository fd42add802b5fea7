package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/legend"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui/hud"
)

var (
	LegendBackground = color.RGBA{20, 20, 24, 230}
	LegendTextColor  = color.White
	LegendTitleColor = color.RGBA{255, 220, 120, 255}
)

const (
	legendPadding = 8
	lineHeight    = 16
	swatchSize    = 10
)

type LegendRenderer struct {
	face  font.Face
	width int
}

func NewLegendRenderer(f font.Face, width int) *LegendRenderer {
	return &LegendRenderer{face: f, width: width}
}

// Draw renders the legend panel with its left edge at x.
func (lr *LegendRenderer) Draw(screen *ebiten.Image, x int, title string, entries []legend.Entry) {
	h := screen.Bounds().Dy()
	vector.DrawFilledRect(screen, float32(x), 0, float32(lr.width), float32(h), LegendBackground, false)

	if lr.face == nil {
		return
	}

	tx := x + legendPadding
	text.Draw(screen, title, lr.face, tx, legendPadding+lineHeight, LegendTitleColor)

	// basicfont glyphs are 7px wide
	maxChars := (lr.width - 2*legendPadding - swatchSize - 6) / 7
	y := legendPadding + 2*lineHeight + 4
	for _, row := range hud.LegendRows(entries, maxChars) {
		if y > h-lineHeight {
			break
		}
		if row.Swatch {
			vector.DrawFilledRect(screen, float32(tx), float32(y-swatchSize), swatchSize, swatchSize, row.Color, false)
		}
		text.Draw(screen, row.Text, lr.face, tx+swatchSize+6, y, LegendTextColor)
		y += lineHeight
	}
}
