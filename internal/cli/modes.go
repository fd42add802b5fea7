package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// ModesCmd returns the modes command.
func ModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the overlay filter modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := config.Get().Overlay.Mode()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s %-24s %s\n", "MODE", "FILTER KEY", "DEFAULT")
			for _, m := range core.AllFilterModes() {
				mark := ""
				if m == active {
					mark = "*"
				}
				fmt.Fprintf(w, "%-10s %-24s %s\n", m, m.FilterKey(), mark)
			}
			return nil
		},
	}
}
