package core

// Handle is an opaque identity for a host object. The overlay never
// dereferences it; it only counts handles and forwards them to renderers.
type Handle uint64

// NoHandle means "no member identity".
const NoHandle Handle = 0

// Tag is a host tag the classifier dispatches on.
type Tag uint8

const (
	TagCreature Tag = 1 << iota
	TagPlant
	TagOilWell
)

// Tags is a set of Tag values.
type Tags uint8

func NewTags(tags ...Tag) Tags {
	var t Tags
	for _, tag := range tags {
		t |= Tags(tag)
	}
	return t
}

func (t Tags) Has(tag Tag) bool { return t&Tags(tag) != 0 }

// Geyser describes the emitting part of a geyser building.
type Geyser struct {
	Output ElementID
}

// Building is the descriptor of an object on the building layer.
type Building struct {
	Handle   Handle
	PrefabID string // e.g. "WarpPortal", "GeyserGeneric_steam"
	Name     string // display name
	Tags     Tags
	Geyser   *Geyser // set only for geysers
}

func (b *Building) IsGeyser() bool { return b != nil && b.Geyser != nil }

func (b *Building) HasTag(tag Tag) bool { return b != nil && b.Tags.Has(tag) }

// Pickupable is the descriptor of an object on the pickupables layer.
type Pickupable struct {
	Handle   Handle
	PrefabID string
	Name     string
	Tags     Tags
}

func (p *Pickupable) HasTag(tag Tag) bool { return p != nil && p.Tags.Has(tag) }

// CellElement is the element occupying a cell.
type CellElement struct {
	ID    ElementID
	Solid bool
}

// Cell is the read-only classification input for one grid cell.
type Cell struct {
	Index      int
	Building   *Building
	Pickupable *Pickupable
	Element    CellElement
	Zone       ZoneType
}

// CellProvider is the host's view of the map.
type CellProvider interface {
	// WorldID identifies the currently active world/context.
	WorldID() int
	// CellCount is the total number of cells across all worlds.
	CellCount() int
	// InActiveWorld reports whether the cell belongs to the active world.
	InActiveWorld(cell int) bool
	// Cell returns the cell contents; false when the index is invalid.
	Cell(cell int) (Cell, bool)
}
