package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadOnChange(t *testing.T) {
	path := writeConfig(t, `address: "127.0.0.1:8001"`)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, WithDebounceDelay(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	defer func() {
		require.NoError(t, w.Stop())
	}()

	assert.Equal(t, "127.0.0.1:8001", w.LastConfig().Address)

	require.NoError(t, os.WriteFile(path, []byte(`address: "127.0.0.1:8002"`), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "127.0.0.1:8002", cfg.Address)
		assert.Equal(t, "127.0.0.1:8002", w.LastConfig().Address)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_ErrorCallbackOnBadReload(t *testing.T) {
	path := writeConfig(t, `address: "127.0.0.1:8003"`)

	errCh := make(chan error, 1)
	w, err := NewWatcher(path, nil,
		WithDebounceDelay(20*time.Millisecond),
		WithErrorCallback(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	defer func() {
		require.NoError(t, w.Stop())
	}()

	require.NoError(t, os.WriteFile(path, []byte("address: [broken"), 0o644))

	select {
	case err := <-errCh:
		assert.Error(t, err)
		// The last good config survives a failed reload.
		assert.Equal(t, "127.0.0.1:8003", w.LastConfig().Address)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error callback")
	}
}

func TestWatcher_StartWithMissingFile(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher("/nonexistent/config.yaml", nil)
	require.NoError(t, err)

	assert.Error(t, w.Start(context.Background()))
}
