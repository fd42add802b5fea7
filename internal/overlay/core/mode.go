package core

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// FilterMode is the active classification rule set.
type FilterMode int

const (
	ModeBiomes FilterMode = iota
	ModeBuildings
	ModeCritters
	ModeGeysers
	ModePlants
	modeCount
)

// DefaultMode is the mode an overlay starts in.
const DefaultMode = ModeGeysers

var modeNames = [...]string{"Biomes", "Buildings", "Critters", "Geysers", "Plants"}

// AllFilterModes returns every mode in canonical (legend filter) order.
func AllFilterModes() []FilterMode {
	return []FilterMode{ModeBiomes, ModeBuildings, ModeCritters, ModeGeysers, ModePlants}
}

func (m FilterMode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("FilterMode(%d)", int(m))
}

// FilterKey is the identifier the host legend filter UI uses for the mode.
func (m FilterMode) FilterKey() string {
	return "MapOverlay" + m.String()
}

// MarshalText encodes the mode by name.
func (m FilterMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts anything ParseFilterMode does.
func (m *FilterMode) UnmarshalText(text []byte) error {
	parsed, err := ParseFilterMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m FilterMode) Valid() bool {
	return m >= 0 && m < modeCount
}

// ParseFilterMode resolves a mode by name or filter key, case-insensitively.
// Near misses produce an error that suggests the closest mode.
func ParseFilterMode(s string) (FilterMode, error) {
	in := strings.TrimSpace(s)
	for _, m := range AllFilterModes() {
		if strings.EqualFold(in, m.String()) || strings.EqualFold(in, m.FilterKey()) {
			return m, nil
		}
	}

	lower := strings.ToLower(in)
	best, bestDist := FilterMode(-1), -1
	for _, m := range AllFilterModes() {
		dist := levenshtein.ComputeDistance(lower, strings.ToLower(m.String()))
		if dist > suggestionLimit(len(m.String())) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = m, dist
		}
	}
	if bestDist >= 0 {
		return 0, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownMode, s, best.String())
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func suggestionLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 7:
		return 2
	default:
		return 3
	}
}
