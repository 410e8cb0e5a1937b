package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelByEnv(t *testing.T) {
	ctx := context.Background()
	assert.True(t, newLogger(&bytes.Buffer{}, "dev").Enabled(ctx, slog.LevelDebug))
	assert.False(t, newLogger(&bytes.Buffer{}, "prod").Enabled(ctx, slog.LevelDebug))
}

func TestJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(buf, "prod").Info("import done", "count", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "import done", rec["msg"])
	assert.Equal(t, 3.0, rec["count"])
}

func TestFileLogger(t *testing.T) {
	log := New("dev", filepath.Join(t.TempDir(), "spatrac.log"))
	require.NotNil(t, log)
	log.Debug("started")
}
