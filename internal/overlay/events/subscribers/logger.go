package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
)

// LoggerSubscriber writes overlay events to a structured log.
type LoggerSubscriber struct {
	id      string
	logger  zerolog.Logger
	level   zerolog.Level
	filter  map[string]bool // nil means every event type
	devMode bool
}

func NewLoggerSubscriber(id string, logger zerolog.Logger, level zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:     id,
		logger: logger.With().Str("subscriber", "event_logger").Logger(),
		level:  level,
	}
}

func (ls *LoggerSubscriber) ID() string { return ls.id }

// SetEventFilter restricts logging to the given types; empty logs everything.
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.filter = nil
		return
	}
	ls.filter = make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		ls.filter[t] = true
	}
}

// SetDevMode makes the subscriber attach the full event as JSON.
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.filter == nil {
		return true
	}
	return ls.filter[eventType]
}

func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.level).
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.ModeChangedEvent:
		logEvent.
			Str("from", e.From.String()).
			Str("to", e.To.String())

	case *events.ContextChangedEvent:
		logEvent.
			Int("from_world", e.FromWorld).
			Int("to_world", e.ToWorld)

	case *events.LegendRebuiltEvent:
		logEvent.
			Str("mode", e.Mode.String()).
			Int("world", e.World).
			Int("cells", e.Cells).
			Int("categories", e.Categories).
			Int("skipped", e.Skipped).
			Dur("duration", e.Duration)

	case *events.SettingsChangedEvent:
		logEvent.
			Bool("show_buried_geysers", e.ShowBuriedGeysers).
			Bool("show_buried_critters", e.ShowBuriedCritters).
			Bool("count_objects", e.CountObjects)
	}

	if ls.devMode {
		if data, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", data)
		}
	}

	logEvent.Msg("Overlay event")
}
