package wasm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZuInnoTe/ZuStDPipe/modules/library/wasm"
)

func TestGetInstanceMissingFile(t *testing.T) {
	mgr, err := wasm.NewLibraryManager(zerolog.Nop())
	require.NoError(t, err)
	defer mgr.Close()

	_, instErr := mgr.GetInstance(filepath.Join(t.TempDir(), "absent.wasm"))
	require.NotNil(t, instErr)
	assert.Contains(t, instErr.Error(), "reading module")
}

func TestGetInstanceRejectsInvalidModule(t *testing.T) {
	mgr, err := wasm.NewLibraryManager(zerolog.Nop())
	require.NoError(t, err)
	defer mgr.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.wasm")
	require.NoError(t, os.WriteFile(path, []byte("not a wasm module"), 0o644))

	_, instErr := mgr.GetInstance(path)
	require.NotNil(t, instErr)
	assert.Contains(t, instErr.Error(), "compiling module")
	assert.Equal(t, 0, mgr.CompileCount())
}
