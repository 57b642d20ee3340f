package logging

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	With("heatmap").Info().Int("points", 3).Msg("fetched")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "heatmap", entry["component"])
	assert.Equal(t, "fetched", entry["message"])
	assert.EqualValues(t, 3, entry["points"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWith_EventsChainOnReturnedLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	With("autosave").Error().Str("user_id", "u1").Msg("save failed")
	With("image").Warn().Msg("upload failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "autosave", first["component"])
	assert.Equal(t, "error", first["level"])
}
