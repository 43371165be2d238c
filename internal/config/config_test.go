package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcery/internal/model"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tool: /opt/binutils/bin/addr2line
module: /targets/libpng.so
sync: false
substitutions:
  - original: /home/wintermute/targets/
    local: /src/
  - original: /build/lib
    local: /home/x/libsrc/
web:
  addr: 127.0.0.1:9000
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/binutils/bin/addr2line", c.Tool)
	assert.Equal(t, "/targets/libpng.so", c.Module)
	assert.False(t, c.SyncEnabled())
	assert.Equal(t, []model.SubstitutionRule{
		{Original: "/home/wintermute/targets/", Local: "/src/"},
		{Original: "/build/lib", Local: "/home/x/libsrc/"},
	}, c.Substitutions)
	assert.Equal(t, "127.0.0.1:9000", c.Web.Addr)
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tool: llvm-addr2line\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.SyncEnabled())
	assert.Equal(t, DefaultWebAddr, c.Web.Addr)
	assert.Empty(t, c.Substitutions)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("substitutions: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse config file")
}
