package core

import (
	"strconv"
	"strings"
)

// ZoneType is the per-cell biome identity.
type ZoneType int

const (
	ZoneFrozenWastes ZoneType = iota
	ZoneCrystalCaverns
	ZoneBoggyMarsh
	ZoneSandstone
	ZoneToxicJungle
	ZoneMagmaCore
	ZoneOilField
	ZoneSpace
	ZoneOcean
	ZoneRust
	ZoneForest
	ZoneRadioactive
	ZoneSwamp
	ZoneWasteland
	ZoneRocketInterior
	ZoneMetallic
	ZoneBarren
	ZoneMoo
	ZoneIceCaves
	ZoneCarrotQuarry
	ZoneSugarWoods
	ZonePrehistoricGarden
	ZonePrehistoricRaptor
	ZonePrehistoricWetlands
	zoneCount
)

var zoneNames = [...]string{
	"FrozenWastes",
	"CrystalCaverns",
	"BoggyMarsh",
	"Sandstone",
	"ToxicJungle",
	"MagmaCore",
	"OilField",
	"Space",
	"Ocean",
	"Rust",
	"Forest",
	"Radioactive",
	"Swamp",
	"Wasteland",
	"RocketInterior",
	"Metallic",
	"Barren",
	"Moo",
	"IceCaves",
	"CarrotQuarry",
	"SugarWoods",
	"PrehistoricGarden",
	"PrehistoricRaptor",
	"PrehistoricWetlands",
}

// AllZones lists every known zone type in declaration order.
func AllZones() []ZoneType {
	zones := make([]ZoneType, 0, zoneCount)
	for z := ZoneType(0); z < zoneCount; z++ {
		zones = append(zones, z)
	}
	return zones
}

// String returns the zone identity used as the biome category key.
// Zones outside the known set render as "Zone<n>" so they still get a stable key.
func (z ZoneType) String() string {
	if z.Valid() {
		return zoneNames[z]
	}
	return "Zone" + strconv.Itoa(int(z))
}

func (z ZoneType) Valid() bool {
	return z >= 0 && z < zoneCount
}

// ParseZoneType resolves a zone identity string, case-insensitively.
func ParseZoneType(s string) (ZoneType, bool) {
	for i, name := range zoneNames {
		if strings.EqualFold(name, s) {
			return ZoneType(i), true
		}
	}
	return 0, false
}
