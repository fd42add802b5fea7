package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/mapoverlay/internal/config"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestModesCommand(t *testing.T) {
	out, err := run(t, "modes", "--mode", "plants")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+len(core.AllFilterModes()))
	assert.Contains(t, lines[0], "FILTER KEY")
	assert.Contains(t, out, "MapOverlayBiomes")
	for _, l := range lines[1:] {
		if strings.HasPrefix(l, "Plants") {
			assert.True(t, strings.HasSuffix(l, "*"), l)
		} else {
			assert.False(t, strings.HasSuffix(l, "*"), l)
		}
	}
}

func TestInvalidModeSuggests(t *testing.T) {
	_, err := run(t, "modes", "--mode", "geyser")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownMode)
	assert.Contains(t, err.Error(), `did you mean "Geysers"`)
}

func TestLegendText(t *testing.T) {
	out, err := run(t, "legend", "--seed", "7", "--width", "30", "--height", "12", "--worlds", "1", "--mode", "biomes")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Biomes (world 0)\n"), out)
	assert.Contains(t, out, "  #")
}

func TestLegendAllModesJSON(t *testing.T) {
	out, err := run(t, "legend", "--seed", "11", "--width", "40", "--height", "20", "--all-modes", "--format", "json", "--buried-geysers")
	require.NoError(t, err)

	var entries []legendJSON
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.NotEmpty(t, entries)

	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Mode] = true
		assert.Equal(t, 0, e.World)
		assert.Len(t, e.Color, 7)
		assert.NotEmpty(t, e.Names)
		_, err := core.ParseHex(e.Color)
		assert.NoError(t, err)
	}
	assert.True(t, seen["Biomes"])
	assert.True(t, seen["Buildings"], "every world has a printing pod")
}

func TestLegendSameSeedSameOutput(t *testing.T) {
	args := []string{"legend", "--seed", "99", "--width", "24", "--height", "12", "--mode", "critters", "--world", "1"}
	a, err := run(t, args...)
	require.NoError(t, err)
	b, err := run(t, args...)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "Critters (world 1)"))
}

func TestLegendErrors(t *testing.T) {
	_, err := run(t, "legend", "--seed", "1", "--worlds", "1", "--world", "3")
	assert.Error(t, err)

	_, err = run(t, "legend", "--seed", "1", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "v", line["k"])

	_, err = NewLogger(config.LoggingConfig{Level: "loud", Format: "json"}, &buf)
	assert.Error(t, err)
}

func TestNewSessionBadTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elements: [not, a, map"), 0o644))

	require.NoError(t, config.Init(""))
	cfg := *config.Get()
	cfg.Tables.Path = path
	cfg.World.Seed = 5
	cfg.World.Width, cfg.World.Height, cfg.World.Worlds = 16, 8, 1

	s, err := NewSession(&cfg, zerolog.Nop())
	require.NoError(t, err, "broken tables fall back to defaults")
	assert.Equal(t, int64(5), s.Seed)
	assert.Equal(t, 16, s.Grid.Width())

	steam, ok := s.Overlay.Tables().ElementColor("Steam")
	require.True(t, ok)
	assert.Equal(t, "#e5eef2", steam.Hex())

	assert.NoError(t, s.SelectWorld(-1))
	assert.Error(t, s.SelectWorld(1))
}

func TestSessionMonitorSeesRebuilds(t *testing.T) {
	require.NoError(t, config.Init(""))
	cfg := *config.Get()
	cfg.World.Seed = 3
	cfg.World.Width, cfg.World.Height, cfg.World.Worlds = 12, 6, 1

	s, err := NewSession(&cfg, zerolog.Nop())
	require.NoError(t, err)

	s.Overlay.BuildLegendEntries()
	require.NoError(t, s.Overlay.SetActiveMode(core.ModeBiomes))

	m := s.Monitor.GetMetrics()
	assert.Equal(t, 2, m.Rebuilds)
	assert.Equal(t, 1, m.PerMode["Biomes"])
}
