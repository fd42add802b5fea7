package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/mapoverlay/internal/ui/hud"
)

// keyActions are the non-character keys.
var keyActions = map[ebiten.Key]hud.Action{
	ebiten.KeyTab:        hud.ActionNextMode,
	ebiten.KeyArrowRight: hud.ActionNextMode,
	ebiten.KeyArrowLeft:  hud.ActionPrevMode,
	ebiten.KeyPageDown:   hud.ActionNextWorld,
	ebiten.KeyPageUp:     hud.ActionPrevWorld,
	ebiten.KeyEscape:     hud.ActionQuit,
}

type Handler struct {
	// Mouse state
	mouseX, mouseY int
	clicked        bool

	tileSize int
	chars    []rune
	actions  []hud.Action
}

func NewHandler(tileSize int) *Handler {
	return &Handler{tileSize: tileSize}
}

// Update polls input once per frame and returns the actions triggered in it.
func (h *Handler) Update() []hud.Action {
	h.mouseX, h.mouseY = ebiten.CursorPosition()
	h.clicked = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	h.actions = h.actions[:0]
	for key, action := range keyActions {
		if inpututil.IsKeyJustPressed(key) {
			h.actions = append(h.actions, action)
		}
	}

	h.chars = ebiten.AppendInputChars(h.chars[:0])
	for _, r := range h.chars {
		if a := hud.ActionForRune(r); a != hud.ActionNone {
			h.actions = append(h.actions, a)
		}
	}
	return h.actions
}

// HoverTile is the tile under the cursor; ok is false off the map.
func (h *Handler) HoverTile(width, height int) (x, y int, ok bool) {
	x, y = h.mouseX/h.tileSize, h.mouseY/h.tileSize
	if h.mouseX < 0 || h.mouseY < 0 || x >= width || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

// Clicked reports a left click this frame.
func (h *Handler) Clicked() bool { return h.clicked }
