package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wickandflame/wickandflame/pkg/logger"
)

func TestNewWithOutput(t *testing.T) {
	t.Parallel()

	t.Run("json format with service attr", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Format: "json", Service: "api"}, &buf)
		log.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "api", record["service"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Format: "text"}, &buf)
		log.Info("hello")
		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Level: slog.LevelWarn}, &buf)
		log.Info("dropped")
		assert.Empty(t, buf.Bytes())
	})

	t.Run("unknown format falls back to json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Format: "yaml"}, &buf)
		log.Info("hello")
		assert.True(t, json.Valid(buf.Bytes()))
	})
}
