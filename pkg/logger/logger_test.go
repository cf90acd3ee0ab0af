package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "debug", Output: &buf})
	log.Component("ingest").Info().Str("scanner", "IN-01").Msg("escaneo recibido")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ingest", line["component"])
	assert.Equal(t, "IN-01", line["scanner"])
	assert.Equal(t, "info", line["level"])
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Output: &buf})
	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("ruido").String())
}

func TestComponent_LoggerNil(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Component("x").Info().Msg("nada") })
}
