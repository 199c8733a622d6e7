package awhina

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWgrib2 points Wgrib2Command at a shell script that emits the given
// index text regardless of its arguments.
func fakeWgrib2(t *testing.T, indexText string) {
	dir := t.TempDir()

	fixture := filepath.Join(dir, "index.txt")
	require.NoError(t, os.WriteFile(fixture, []byte(indexText), 0o644))

	script := filepath.Join(dir, "wgrib2")
	require.NoError(t, os.WriteFile(script,
		[]byte(fmt.Sprintf("#!/bin/sh\ncat %s\n", fixture)), 0o755))

	old := Wgrib2Command
	Wgrib2Command = script
	t.Cleanup(func() { Wgrib2Command = old })
}

func TestLocalInventory(t *testing.T) {
	fakeWgrib2(t, wgrib2IndexText)

	inv, err := LocalInventory("f.grib2", 6)
	require.NoError(t, err)
	require.Len(t, inv.Items, 4)
	assert.Equal(t, LocalSource, inv.Source)
	assert.Equal(t, "TMP", inv.Items[0].Variable)
	assert.Equal(t, "0-100", inv.Items[0].Range())
}

func TestLocalInventoryCommandFailure(t *testing.T) {
	script := filepath.Join(t.TempDir(), "wgrib2")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 8\n"), 0o755))

	old := Wgrib2Command
	Wgrib2Command = script
	t.Cleanup(func() { Wgrib2Command = old })

	_, err := LocalInventory("f.grib2", 0)
	assert.Error(t, err)
}
