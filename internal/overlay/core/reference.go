package core

import "fmt"

// ElementID identifies a simulation element (e.g. "Water", "CrudeOil").
type ElementID string

// Element IDs with special meaning for the overlay.
const (
	ElementCrudeOil ElementID = "CrudeOil"
	// ElementUnobtanium is neutronium, the reserved rare material that is
	// painted in geyser mode regardless of category.
	ElementUnobtanium ElementID = "Unobtanium"
	ElementVacuum     ElementID = "Vacuum"
)

// RefKind selects which variant of a ColorReference is populated.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefElement
	RefBiome
	RefName
)

func (k RefKind) String() string {
	switch k {
	case RefElement:
		return "element"
	case RefBiome:
		return "biome"
	case RefName:
		return "name"
	default:
		return "none"
	}
}

// ColorReference is the classification-time input to colour derivation.
// Exactly one of Element, Biome or Name is meaningful, selected by Kind.
type ColorReference struct {
	Kind    RefKind
	Element ElementID
	Biome   ZoneType
	Name    string
}

func ElementRef(id ElementID) ColorReference {
	return ColorReference{Kind: RefElement, Element: id}
}

func BiomeRef(z ZoneType) ColorReference {
	return ColorReference{Kind: RefBiome, Biome: z}
}

func NameRef(name string) ColorReference {
	return ColorReference{Kind: RefName, Name: name}
}

func (r ColorReference) String() string {
	switch r.Kind {
	case RefElement:
		return fmt.Sprintf("element:%s", r.Element)
	case RefBiome:
		return fmt.Sprintf("biome:%s", r.Biome)
	case RefName:
		return fmt.Sprintf("name:%s", r.Name)
	default:
		return "none"
	}
}
