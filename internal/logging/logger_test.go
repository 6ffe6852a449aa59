package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "trivia-api", "production")

	ctx := IntoContext(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "trivia-api", line["app"])
	assert.Equal(t, "production", line["env"])
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotPanics(t, func() { logger.Info().Msg("dropped") })
}

func TestProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "trivia-api", "production")
	logger.Debug().Msg("noise")
	assert.Zero(t, buf.Len())

	logger.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}
