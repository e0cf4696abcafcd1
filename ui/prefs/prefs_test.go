package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	p := LoadFrom(path)
	assert.Equal(t, 0.2, p.FloatWithFallback("mmPerPixel", 0.2))

	p.SetFloat("mmPerPixel", 0.143)
	p.SetString("annotationColor", "#3b82f6")
	p.SetBool("useImageDPI", true)
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, 0.143, q.Float("mmPerPixel"))
	assert.Equal(t, "#3b82f6", q.String("annotationColor"))
	assert.True(t, q.Bool("useImageDPI", false))
	assert.Equal(t, path, q.Path())
}

func TestSaveIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	p := LoadFrom(path)

	require.NoError(t, p.SaveIfChanged())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing written without changes")

	p.SetString("exportDirectory", "/tmp")
	require.NoError(t, p.SaveIfChanged())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCorruptFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, "", p.String("anything"))
	assert.False(t, p.Bool("x", false))
}
