package configwatcher

import (
	"codementor_backend/internal/config"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configBody(policy string) string {
	return "database:\n  driver: sqlite\n  path: app.db\nguidance:\n  resource_policy: " + policy + "\n"
}

func startWatcher(t *testing.T, file string) <-chan *config.Config {
	t.Helper()

	w, err := newWatcher(file, 100*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *config.Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.run(ctx, func(cfg *config.Config) { reloads <- cfg })
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop after cancel")
		}
	})
	return reloads
}

func TestWatcher_DebouncesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(configBody("append")), 0644))

	reloads := startWatcher(t, file)

	for _, policy := range []string{"append", "append", "replace"} {
		require.NoError(t, os.WriteFile(file, []byte(configBody(policy)), 0644))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case cfg := <-reloads:
		assert.Equal(t, config.ResourcePolicyReplace, cfg.Guidance.ResourcePolicy)
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded")
	}

	select {
	case cfg := <-reloads:
		t.Fatalf("unexpected second reload: %+v", cfg.Guidance)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_KeepsOldConfigOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(configBody("append")), 0644))

	reloads := startWatcher(t, file)

	require.NoError(t, os.WriteFile(file, []byte(configBody("merge")), 0644))
	select {
	case cfg := <-reloads:
		t.Fatalf("invalid config must not be applied: %+v", cfg.Guidance)
	case <-time.After(600 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(file, []byte(configBody("replace")), 0644))
	select {
	case cfg := <-reloads:
		assert.Equal(t, config.ResourcePolicyReplace, cfg.Guidance.ResourcePolicy)
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded after fix")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(configBody("append")), 0644))

	reloads := startWatcher(t, file)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))
	select {
	case <-reloads:
		t.Fatal("sibling write must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchConfig_MissingDirectory(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"), func(*config.Config) {})
	assert.Error(t, err)
}
