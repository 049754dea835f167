package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "costseg.db", cfg.Storage.DbPath)
	assert.Equal(t, BackendFS, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, int64(25<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("COSTSEG_SERVER_PORT", "8080")
	t.Setenv("COSTSEG_SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("COSTSEG_STORAGE_BACKEND", "s3")
	t.Setenv("COSTSEG_STORAGE_S3_BUCKET", "studies")
	t.Setenv("COSTSEG_STORAGE_S3_REGION", "us-west-2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "studies", cfg.Storage.S3.Bucket)
	assert.Equal(t, "us-west-2", cfg.Storage.S3.Region)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "costseg.yaml")
	content := `server:
  host: "0.0.0.0"
  port: 9000
storage:
  db_path: "/var/lib/costseg/costseg.db"
  data_dir: "/var/lib/costseg/data"
uploads:
  max_bytes: 1048576`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("COSTSEG_SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/var/lib/costseg/costseg.db", cfg.Storage.DbPath)
	assert.Equal(t, "/var/lib/costseg/data", cfg.Storage.DataDir)
	assert.Equal(t, int64(1048576), cfg.Uploads.MaxBytes)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: port: bad: x"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		t.Setenv("COSTSEG_STORAGE_BACKEND", "s3")
		_, err := Load("")
		assert.ErrorContains(t, err, "storage.s3.bucket")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("COSTSEG_STORAGE_BACKEND", "ftp")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}
