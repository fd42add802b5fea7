package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/mapoverlay/internal/cli"
	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui"
)

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the overlay in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			logger, err := cli.NewLogger(cfg.Logging, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s, err := cli.NewSession(cfg, logger)
			if err != nil {
				return err
			}
			s.WatchSettings(logger)
			s.Monitor.Start()
			defer s.Monitor.Stop()

			game := ui.NewOverlayGame(s.Overlay, s.Grid, cfg.UI, logger)
			ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
			ebiten.SetWindowTitle(cfg.UI.Window.Title)

			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := cli.NewRootCmd(viewCmd()).Execute(); err != nil {
		log.Error().Err(err).Msg("mapoverlay failed")
		os.Exit(1)
	}
}
