package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/legend"
)

// legendJSON is one legend entry in --format json output.
type legendJSON struct {
	Mode  string   `json:"mode"`
	World int      `json:"world"`
	Color string   `json:"color"`
	Names []string `json:"names"`
}

// LegendCmd returns the legend command.
func LegendCmd() *cobra.Command {
	var (
		worldID  int
		allModes bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the overlay legend for a generated world",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}

			cfg := config.Get()
			logger, err := NewLogger(cfg.Logging, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s, err := NewSession(cfg, logger)
			if err != nil {
				return err
			}
			if err := s.SelectWorld(worldID); err != nil {
				return err
			}

			modes := []core.FilterMode{s.Overlay.ActiveMode()}
			if allModes {
				modes = core.AllFilterModes()
			}

			var out []legendJSON
			for _, m := range modes {
				if err := s.Overlay.SetActiveMode(m); err != nil {
					return err
				}
				entries := s.Overlay.BuildLegendEntries()
				if format == "json" {
					out = append(out, toJSON(m, s.Grid.WorldID(), entries)...)
					continue
				}
				writeLegend(cmd.OutOrStdout(), m, s.Grid.WorldID(), entries)
			}

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&worldID, "world", -1, "world to classify (default: the first)")
	cmd.Flags().BoolVar(&allModes, "all-modes", false, "print a legend for every filter mode")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func writeLegend(w io.Writer, mode core.FilterMode, worldID int, entries []legend.Entry) {
	fmt.Fprintf(w, "%s (world %d)\n", mode, worldID)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, e := range entries {
		for i, name := range splitNames(e.Name) {
			swatch := strings.Repeat(" ", 7)
			if i == 0 {
				swatch = e.Color.Hex()
			}
			fmt.Fprintf(w, "  %s  %s\n", swatch, name)
		}
	}
	fmt.Fprintln(w)
}

func toJSON(mode core.FilterMode, worldID int, entries []legend.Entry) []legendJSON {
	out := make([]legendJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, legendJSON{
			Mode:  mode.String(),
			World: worldID,
			Color: e.Color.Hex(),
			Names: splitNames(e.Name),
		})
	}
	return out
}

func splitNames(merged string) []string {
	names := strings.Split(merged, "\n")
	for i, n := range names {
		names[i] = legend.StripMarkup(n)
	}
	return names
}
