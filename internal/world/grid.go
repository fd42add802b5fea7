// Package world is an in-memory map: a row-major grid of cells split into
// equally sized worlds stacked vertically, one of which is active.
package world

import (
	"fmt"
	"sync"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// Grid implements core.CellProvider.
type Grid struct {
	mu         sync.RWMutex
	w, h       int // per world
	worlds     int
	active     int
	cells      []core.Cell
	nextHandle core.Handle
}

// NewGrid creates worlds of w*h vacuum cells in the Space zone.
func NewGrid(w, h, worlds int) *Grid {
	if worlds < 1 {
		worlds = 1
	}
	g := &Grid{w: w, h: h, worlds: worlds, cells: make([]core.Cell, w*h*worlds)}
	for i := range g.cells {
		g.cells[i] = core.Cell{
			Index:   i,
			Element: core.CellElement{ID: core.ElementVacuum},
			Zone:    core.ZoneSpace,
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }
func (g *Grid) Worlds() int { return g.worlds }

// Idx is the cell index of (x, y) in world.
func (g *Grid) Idx(world, x, y int) int { return world*g.w*g.h + y*g.w + x }

// XY is the inverse of Idx.
func (g *Grid) XY(idx int) (world, x, y int) {
	per := g.w * g.h
	world, idx = idx/per, idx%per
	return world, idx % g.w, idx / g.w
}

// InBounds checks world-local coordinates.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *Grid) WorldID() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

func (g *Grid) CellCount() int { return len(g.cells) }

func (g *Grid) InActiveWorld(idx int) bool {
	if idx < 0 || idx >= len(g.cells) {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return idx/(g.w*g.h) == g.active
}

func (g *Grid) Cell(idx int) (core.Cell, bool) {
	if idx < 0 || idx >= len(g.cells) {
		return core.Cell{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cells[idx], true
}

// SetActiveWorld switches the active world.
func (g *Grid) SetActiveWorld(world int) error {
	if world < 0 || world >= g.worlds {
		return fmt.Errorf("world %d out of range [0,%d)", world, g.worlds)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = world
	return nil
}

// CycleWorld moves the active world by step, wrapping, and returns it.
func (g *Grid) CycleWorld(step int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = ((g.active+step)%g.worlds + g.worlds) % g.worlds
	return g.active
}

// NewHandle allocates a fresh object identity.
func (g *Grid) NewHandle() core.Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextHandle++
	return g.nextHandle
}

// Update applies fn to the cell at idx. The cell index cannot be changed.
func (g *Grid) Update(idx int, fn func(c *core.Cell)) error {
	if idx < 0 || idx >= len(g.cells) {
		return core.WrapCellError(idx, "update", core.ErrCellOutOfRange)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.cells[idx])
	g.cells[idx].Index = idx
	return nil
}

// SetZone sets the zone of one cell.
func (g *Grid) SetZone(idx int, z core.ZoneType) error {
	return g.Update(idx, func(c *core.Cell) { c.Zone = z })
}

// SetElement sets the element of one cell.
func (g *Grid) SetElement(idx int, id core.ElementID, solid bool) error {
	return g.Update(idx, func(c *core.Cell) { c.Element = core.CellElement{ID: id, Solid: solid} })
}

// PlaceBuilding puts b on the building layer, assigning a handle when it has none.
func (g *Grid) PlaceBuilding(idx int, b core.Building) (core.Handle, error) {
	if b.Handle == core.NoHandle {
		b.Handle = g.NewHandle()
	}
	err := g.Update(idx, func(c *core.Cell) { c.Building = &b })
	return b.Handle, err
}

// PlacePickupable puts p on the pickupable layer, assigning a handle when it has none.
func (g *Grid) PlacePickupable(idx int, p core.Pickupable) (core.Handle, error) {
	if p.Handle == core.NoHandle {
		p.Handle = g.NewHandle()
	}
	err := g.Update(idx, func(c *core.Cell) { c.Pickupable = &p })
	return p.Handle, err
}

// Locate returns the cell index holding handle, or -1.
func (g *Grid) Locate(h core.Handle) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i, c := range g.cells {
		if (c.Building != nil && c.Building.Handle == h) || (c.Pickupable != nil && c.Pickupable.Handle == h) {
			return i
		}
	}
	return -1
}
