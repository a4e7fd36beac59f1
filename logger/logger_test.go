package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/config"
)

func TestInitWritesRotatingFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "storefront.log")

	logger, err := Init(config.LoggerConfig{Mode: "production", FileEnable: true, Filename: filename})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())

	zap.L().Info("product created", zap.String("id", "p-1"))
	_ = logger.Sync()

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "product created")
	assert.Contains(t, string(data), `"id":"p-1"`)
}

func TestInitDevelopment(t *testing.T) {
	logger, err := Init(config.LoggerConfig{Mode: "development"})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())

	assert.Same(t, logger, zap.L())
}
