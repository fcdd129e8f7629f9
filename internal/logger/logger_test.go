package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, err := New(Options{Dir: dir, Level: "debug"})
	require.NoError(t, err)
	log.Infow("hello", "k", "v")
	_ = log.Sync()

	name := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
	assert.Contains(t, string(raw), `"k":"v"`)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Dir: t.TempDir(), Level: "chatty"})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	assert.Same(t, zap.S(), FromContext(context.Background()))

	l := zap.NewNop().Sugar()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestSetLevel_ReachesExistingLoggers(t *testing.T) {
	log, err := New(Options{Dir: t.TempDir(), Level: "warn"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = SetLevel("info") })

	core := log.Desugar().Core()
	assert.False(t, core.Enabled(zap.InfoLevel))

	require.NoError(t, SetLevel("debug"))
	assert.True(t, core.Enabled(zap.DebugLevel))

	assert.Error(t, SetLevel("chatty"))
	assert.True(t, core.Enabled(zap.DebugLevel), "bad name leaves the level alone")
}
