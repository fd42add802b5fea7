package hud

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/legend"
)

// Row is one rendered legend line. Merged entries span several rows; only
// the first carries the swatch.
type Row struct {
	Text   string
	Color  core.Color
	Swatch bool
}

// LegendRows lays out entries with markup stripped, truncating names to
// width runes (no limit when width <= 0).
func LegendRows(entries []legend.Entry, width int) []Row {
	var rows []Row
	for _, e := range entries {
		for i, name := range strings.Split(e.Name, "\n") {
			rows = append(rows, Row{
				Text:   truncate(legend.StripMarkup(name), width),
				Color:  e.Color,
				Swatch: i == 0,
			})
		}
	}
	return rows
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return "~"
	}
	return string([]rune(s)[:width-1]) + "~"
}

// Status is the one-line viewer summary.
func Status(mode core.FilterMode, world, worlds int, s overlay.Settings, targets int) string {
	return fmt.Sprintf("%s | world %d/%d | objects %d | count %s | buried geysers %s | buried critters %s",
		mode, world+1, worlds, targets,
		onOff(s.CountObjects), onOff(s.ShowBuriedGeysers), onOff(s.ShowBuriedCritters))
}
