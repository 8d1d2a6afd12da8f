package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loglane/syslogcore/listener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listener:\n  port: 5544\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5544, cfg.Listener.Port)
	assert.Equal(t, listener.ProtocolUDP, cfg.Listener.Protocol)
	assert.NotZero(t, cfg.Listener.MaxFrame)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := LoadFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}
