package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/occugraph/pkg/cache"
	"github.com/matzehuels/occugraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".cache", "occugraph"), dir)
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "occugraph"), dir)
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg")

	cfg := config.Default()
	dir, err := fileCacheDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "occugraph"), dir, "XDG default")

	cfg.Cache.Dir = "/custom"
	dir, err = fileCacheDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/custom", dir)
}

func TestRunCacheClear(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()

	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, fc.Set(ctx, k, []byte(k), time.Hour))
	}

	c := New(os.Stderr, LogInfo)
	require.NoError(t, c.runCacheClear(ctx, cfg))

	entries, _, err := fc.Stats()
	require.NoError(t, err)
	assert.Zero(t, entries, "entries after clear")

	assert.NoError(t, c.runCacheClear(ctx, cfg), "clearing an empty cache")
}

func TestRunCacheClearDisabled(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.noCache = true
	assert.NoError(t, c.runCacheClear(context.Background(), config.Default()))
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in), "formatBytes(%d)", tt.in)
	}
}
