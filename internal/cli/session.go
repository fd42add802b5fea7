package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/monitoring"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events/subscribers"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/tables"
	"github.com/mitchelldurbincs/mapoverlay/internal/world"
)

// Session is a generated world with an overlay bound to it.
type Session struct {
	Grid    *world.Grid
	Overlay *overlay.Overlay
	Monitor *monitoring.RebuildMonitor
	Seed    int64
}

// NewSession generates the world described by cfg and attaches an overlay.
// A broken tables file is logged and the defaults are used.
func NewSession(cfg *config.Config, logger zerolog.Logger) (*Session, error) {
	t, err := tables.Load(cfg.Tables.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Tables.Path).Msg("Lookup tables partially loaded")
	}

	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gc := world.DefaultGeneratorConfig(cfg.World.Width, cfg.World.Height, cfg.World.Worlds)
	gc.GeyserRatio = cfg.World.GeyserRatio
	gc.CritterRatio = cfg.World.CritterRatio
	gc.PlantRatio = cfg.World.PlantRatio
	gc.SolidChance = cfg.World.SolidChance
	grid := world.NewGenerator(gc, rand.New(rand.NewSource(seed))).Generate()

	logger.Info().
		Int64("seed", seed).
		Int("width", grid.Width()).
		Int("height", grid.Height()).
		Int("worlds", grid.Worlds()).
		Msg("World generated")

	mode, err := cfg.Overlay.Mode()
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(logger)
	eventLog := subscribers.NewLoggerSubscriber("event_logger", logger, zerolog.DebugLevel)
	eventLog.SetDevMode(cfg.Logging.DevEvents)
	bus.Subscribe(eventLog)
	monitor := monitoring.NewRebuildMonitor(30*time.Second, logger)
	bus.Subscribe(monitor)

	o, err := overlay.New(overlay.Options{
		Provider:        grid,
		Tables:          t,
		Settings:        cfg.Overlay.Settings(),
		Mode:            mode,
		SingleDarkBoost: cfg.Overlay.SingleDarkBoost,
		Bus:             bus,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}

	return &Session{Grid: grid, Overlay: o, Monitor: monitor, Seed: seed}, nil
}

// WatchSettings pushes overlay settings from config file reloads into the
// session. Invalid reloads are logged and ignored.
func (s *Session) WatchSettings(logger zerolog.Logger) {
	config.WatchConfig(func(c *config.Config, err error) {
		if err != nil {
			logger.Warn().Err(err).Msg("Ignoring invalid config reload")
			return
		}
		s.Overlay.ApplySettings(c.Overlay.Settings())
	})
}

// SelectWorld makes world the active context; a negative world keeps the
// current one.
func (s *Session) SelectWorld(w int) error {
	if w < 0 {
		return nil
	}
	return s.Grid.SetActiveWorld(w)
}
