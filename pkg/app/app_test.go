package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/de-tools/costseg/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FSBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DbPath:  filepath.Join(dir, "costseg.db"),
			Backend: config.BackendFS,
			DataDir: filepath.Join(dir, "data"),
		},
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	tpl, err := a.Reports.CreateTemplate(context.Background(), "Letterhead", bytes.NewReader([]byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "data", "templates", tpl.ID+".pdf"))
	assert.NotNil(t, a.Metrics.Registry())
}
