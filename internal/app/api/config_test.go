package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REMOTE_STORE_URL", "http://localhost:9000/cart")
	t.Setenv("CART_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("SYNC_CART_ID", "")
	t.Setenv("REMOTE_STORE_TIMEOUT", "")
	t.Setenv("TEMPORAL_DISABLED", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "default", cfg.SyncCartID)
	require.Equal(t, 5*time.Second, cfg.RemoteStoreTimeout)
	require.False(t, cfg.TemporalDisabled)
}

func TestLoadConfigRequiresRemoteStoreURL(t *testing.T) {
	t.Setenv("REMOTE_STORE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "REMOTE_STORE_URL")
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.yaml")
	content := []byte("port: \"9090\"\nremoteStoreURL: http://file.example/cart\nsyncCartID: file-cart\ntemporalDisabled: true\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CART_CONFIG", path)
	t.Setenv("SYNC_CART_ID", "env-cart")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "http://file.example/cart", cfg.RemoteStoreURL)
	require.Equal(t, "env-cart", cfg.SyncCartID)
	require.True(t, cfg.TemporalDisabled)
}
