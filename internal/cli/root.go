// Package cli holds the mapoverlay command tree.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// NewRootCmd builds the command tree. Extra commands (such as the window
// viewer, which needs a display) are attached by the caller.
func NewRootCmd(extra ...*cobra.Command) *cobra.Command {
	var configPath, env string

	root := &cobra.Command{
		Use:   "mapoverlay",
		Short: "Classify and colour map cells for an overlay legend",
		Long: `mapoverlay generates a layered colony map, classifies its cells under one
of the overlay filter modes and prints or displays the resulting legend.

Examples:
  # Print the geyser legend of world 0
  mapoverlay legend --mode geysers --world 0

  # Every mode, counting members, from a fixed seed
  mapoverlay legend --all-modes --count --seed 42

  # Interactive terminal viewer
  mapoverlay term
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitWithFlags(configPath, cmd.Flags()); err != nil {
				return err
			}
			return config.LoadEnvironmentConfig(env)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ./mapoverlay.yaml)")
	pf.StringVar(&env, "env", "", "merge mapoverlay.<env>.yaml over the config")
	pf.String("mode", core.DefaultMode.String(), "initial filter mode")
	pf.Bool("count", true, "append member counts to legend names")
	pf.Bool("buried-geysers", false, "show geysers buried in solid tiles")
	pf.Bool("buried-critters", false, "show critters buried in solid tiles")
	pf.String("tables", "", "element and biome table override file")
	pf.Int64("seed", 0, "world seed (0 picks one from the clock)")
	pf.Int("width", 64, "world width in cells")
	pf.Int("height", 40, "world height in cells")
	pf.Int("worlds", 2, "number of stacked worlds")
	pf.String("log-level", "info", "log level")

	root.AddCommand(LegendCmd(), ModesCmd(), TermCmd())
	root.AddCommand(extra...)
	return root
}

// NewLogger builds the process logger from the logging config.
func NewLogger(c config.LoggingConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	if c.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
