package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanScriptPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "jump", want: "scripts/jump.tengo"},
		{in: "jump.tengo", want: "scripts/jump.tengo"},
		{in: "scripts/jump.tengo", want: "scripts/jump.tengo"},
		{in: "prefabs/scripts/jump.tengo", want: "scripts/jump.tengo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanScriptPath(tt.in), tt.in)
	}
}

func TestScriptsAreEmbedded(t *testing.T) {
	names, err := Scripts()
	require.NoError(t, err)
	assert.Contains(t, names, "dash_refill.tengo")
	assert.Contains(t, names, "lasso_swing.tengo")

	src, err := LoadScript("jump")
	require.NoError(t, err)
	assert.Contains(t, string(src), "sim.jump()")
}

func TestLoadPrefersDisk(t *testing.T) {
	overridePrefab(t, "dash.yaml", "kind: dash\ndash_speed: 5\n")

	data, err := Load("dash.yaml")
	require.NoError(t, err)
	assert.Equal(t, "kind: dash\ndash_speed: 5\n", string(data))

	_, ok := ModTime("dash.yaml")
	assert.True(t, ok)
	_, ok = ModTime("grapple.yaml")
	assert.False(t, ok, "embedded files have no disk time")

	data, err = Load("grapple.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: grapple")
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dash.yaml"), []byte("kind: dash\n"), 0o644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Drain()...)
		return len(got) > 0
	}, 2*time.Second, 20*time.Millisecond)

	for _, name := range got {
		assert.Equal(t, "dash.yaml", filepath.Base(name))
	}
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
