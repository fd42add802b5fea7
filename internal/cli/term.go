package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/ui/terminal"
)

// TermCmd returns the terminal viewer command.
func TermCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Browse the overlay in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			// The screen owns stdout, so logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger, err := NewLogger(cfg.Logging, logOut)
			if err != nil {
				return err
			}

			s, err := NewSession(cfg, logger)
			if err != nil {
				return err
			}
			s.WatchSettings(logger)
			s.Monitor.Start()
			defer s.Monitor.Stop()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			defer screen.Fini()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			viewer := terminal.NewViewer(screen, s.Overlay, s.Grid, cfg.UI.Highlights, logger)
			if err := viewer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
