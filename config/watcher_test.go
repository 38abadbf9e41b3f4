package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_ReloadsOnChange(t *testing.T) {
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "proctor.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"info\"\n"), 0644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Stop()
	cw.debouncePeriod = 10 * time.Millisecond

	reloaded := make(chan *Config, 1)
	cw.OnReload(func(cfg *Config) error {
		select {
		case reloaded <- cfg:
		default:
		}
		return nil
	})
	cw.Start()

	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0644))

	select {
	case cfg := <-reloaded:
		require.NotNil(t, cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired after config write")
	}
}

func TestConfigWatcher_DebouncesRapidWrites(t *testing.T) {
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "proctor.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"info\"\n"), 0644))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	defer cw.Stop()
	cw.debouncePeriod = 100 * time.Millisecond

	reloads := make(chan struct{}, 16)
	cw.OnReload(func(*Config) error {
		reloads <- struct{}{}
		return nil
	})
	cw.Start()

	// A burst of writes inside the debounce window collapses into one reload
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired after burst of writes")
	}

	select {
	case <-reloads:
		t.Fatal("burst of writes triggered more than one reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestConfigWatcher_MissingFile(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
