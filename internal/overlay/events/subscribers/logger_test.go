package subscribers

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
	"github.com/mitchelldurbincs/mapoverlay/internal/testutil"
)

func TestLoggerSubscriberFields(t *testing.T) {
	var buf bytes.Buffer
	ls := NewLoggerSubscriber("log", zerolog.New(&buf), zerolog.InfoLevel)
	assert.Equal(t, "log", ls.ID())

	ls.HandleEvent(events.NewModeChangedEvent("sess", core.ModeGeysers, core.ModeBiomes))
	ls.HandleEvent(events.NewLegendRebuiltEvent("sess", core.ModeBiomes, 2, 400, 6, 1, 0))

	lines := testutil.LogLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "mode.changed", lines[0]["event_type"])
	assert.Equal(t, "Geysers", lines[0]["from"])
	assert.Equal(t, "Biomes", lines[0]["to"])
	assert.Equal(t, "sess", lines[0]["session_id"])
	assert.Equal(t, "event_logger", lines[0]["subscriber"])

	assert.Equal(t, "Biomes", lines[1]["mode"])
	assert.Equal(t, float64(6), lines[1]["categories"])
	assert.Equal(t, float64(1), lines[1]["skipped"])
}

func TestLoggerSubscriberFilter(t *testing.T) {
	var buf bytes.Buffer
	ls := NewLoggerSubscriber("log", zerolog.New(&buf), zerolog.DebugLevel)

	ls.SetEventFilter([]string{events.TypeContextChanged})
	assert.True(t, ls.InterestedIn(events.TypeContextChanged))
	assert.False(t, ls.InterestedIn(events.TypeModeChanged))

	ls.SetEventFilter(nil)
	assert.True(t, ls.InterestedIn(events.TypeModeChanged))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	ls := NewLoggerSubscriber("log", zerolog.New(&buf), zerolog.WarnLevel)
	ls.SetDevMode(true)

	ls.HandleEvent(events.NewContextChangedEvent("sess", 0, 3))

	lines := testutil.LogLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["to_world"])
}
