package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	logger, err := Init(config.LoggingConfig{
		Level:      "debug",
		Format:     "json",
		Output:     "none",
		EnableFile: true,
		FilePath:   path,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, L())
	assert.FileExists(t, path)
}

func TestWithSocketID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	ctx = WithSocketID(ctx, "sock-1")
	FromContext(ctx).Info("hello")

	assert.Equal(t, "sock-1", GetSocketID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "sock-1", logs.All()[0].ContextMap()["socket_id"])
}
