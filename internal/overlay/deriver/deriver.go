// Package deriver turns a category's colour reference into a display colour.
package deriver

import (
	"crypto/sha256"
	"math"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

const (
	// paletteSteps is the number of quantisation steps per channel (0.25 grid).
	paletteSteps = 4

	// darkThreshold is the max channel value below which a colour is boosted.
	darkThreshold = 0.3

	darkBlueBoost = 0.25
	darkTintBoost = 0.1
)

// Lookup is the static table data colours are derived from.
type Lookup interface {
	ElementColor(id core.ElementID) (core.Color, bool)
	// BiomeColor always returns a usable colour; false marks a fallback.
	BiomeColor(z core.ZoneType) (core.Color, bool)
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithSingleBoost applies the blue tint of the dark-colour boost once instead
// of the legacy double application.
func WithSingleBoost() Option {
	return func(d *Deriver) { d.singleBoost = true }
}

// Deriver maps colour references to colours. It holds no mutable state.
type Deriver struct {
	lookup      Lookup
	singleBoost bool
}

func New(lookup Lookup, opts ...Option) *Deriver {
	d := &Deriver{lookup: lookup}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive returns the colour for ref.
//
// Biome colours are hand-tuned and returned as-is with alpha forced to 1.
// Element and name colours are snapped to a 0.25 grid so near-identical
// colours collapse into one legend entry, then very dark results get a
// blue/green tint to stay visible on the black background.
func (d *Deriver) Derive(ref core.ColorReference) core.Color {
	var c core.Color

	switch ref.Kind {
	case core.RefElement:
		var ok bool
		if c, ok = d.lookup.ElementColor(ref.Element); !ok {
			c = core.Transparent
		}
	case core.RefBiome:
		c, _ = d.lookup.BiomeColor(ref.Biome)
		return c.WithAlpha(1)
	case core.RefName:
		c = NameColor(ref.Name)
	default:
		c = core.White
	}

	return BoostDark(Quantize(c), d.singleBoost)
}

// NameColor hashes name with SHA-256 and uses the first three bytes as RGB.
func NameColor(name string) core.Color {
	sum := sha256.Sum256([]byte(name))
	return core.FromBytes(sum[0], sum[1], sum[2], 255)
}

// Quantize rounds R, G and B to the nearest multiple of 0.25. Alpha is kept.
func Quantize(c core.Color) core.Color {
	c.R = quantizeChannel(c.R)
	c.G = quantizeChannel(c.G)
	c.B = quantizeChannel(c.B)
	return c
}

func quantizeChannel(v float64) float64 {
	return math.Round(v*paletteSteps) / paletteSteps
}

// BoostDark tints colours whose brightest channel is below 0.3. The legacy
// variant adds to blue twice (0.25 then 0.1); single applies only the 0.25.
func BoostDark(c core.Color, single bool) core.Color {
	if c.MaxComponent() >= darkThreshold {
		return c
	}
	c.B += darkBlueBoost
	c.G += darkTintBoost
	if !single {
		c.B += darkTintBoost
	}
	return c
}
