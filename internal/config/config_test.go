package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, BackendJSON, cfg.StorageBackend)
	require.NotEmpty(t, cfg.APIKeys)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().ListenAddr, cfg.ListenAddr)
}

func TestLoadYAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
listen_addr: ":9090"
storage_backend: sqlite
data_dir: /var/lib/bookstore
api_keys:
  prod-key-1: admin
rate_limit_rps: 5
rate_limit_burst: 10
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, BackendSQLite, cfg.StorageBackend)
	require.Equal(t, "/var/lib/bookstore", cfg.DataDir)
	require.Equal(t, map[string]string{"prod-key-1": "admin"}, cfg.APIKeys)
	require.Equal(t, float64(5), cfg.RateLimitRPS)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_backend: postgres\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BOOKSTORE_ADDR", ":7070")
	t.Setenv("BOOKSTORE_STORAGE", "sqlite")
	t.Setenv("BOOKSTORE_API_KEYS", "k1:admin, k2")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.ListenAddr)
	require.Equal(t, BackendSQLite, cfg.StorageBackend)
	require.Equal(t, map[string]string{"k1": "admin", "k2": "user"}, cfg.APIKeys)
}

func TestParseKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{name: "single", in: "k:admin", want: map[string]string{"k": "admin"}},
		{name: "bare_key_gets_user", in: "k", want: map[string]string{"k": "user"}},
		{name: "multiple_with_spaces", in: "a:admin, b:user", want: map[string]string{"a": "admin", "b": "user"}},
		{name: "empty_parts_skipped", in: "a:admin,,", want: map[string]string{"a": "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, parseKeys(tt.in))
		})
	}
}
