package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Writer: &buf})

	log.Info().Msg("hidden")
	log.Warn().Str("path", "a.jpg").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "a.jpg", line["path"])
	assert.Equal(t, "warn", line["level"])
}

func TestNamed_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})
	t.Cleanup(func() { Init(Options{Level: "disabled"}) })

	Named("index").Debug().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "index", line["component"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PIXDEX_LOG_LEVEL", "Debug")
	t.Setenv("PIXDEX_LOG_FORMAT", "JSON")
	opt := FromEnv()
	assert.Equal(t, "debug", opt.Level)
	assert.Equal(t, "json", opt.Format)
}

func TestFromConfig_EnvWins(t *testing.T) {
	t.Setenv("PIXDEX_LOG_LEVEL", "")
	t.Setenv("PIXDEX_LOG_FORMAT", "")
	opt := FromConfig("warn", "")
	assert.Equal(t, "warn", opt.Level)
	assert.Equal(t, "console", opt.Format)

	t.Setenv("PIXDEX_LOG_LEVEL", "error")
	opt = FromConfig("warn", "json")
	assert.Equal(t, "error", opt.Level)
	assert.Equal(t, "json", opt.Format)
}
