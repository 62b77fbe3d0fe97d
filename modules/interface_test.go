package modules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZuInnoTe/ZuStDPipe/errs"
	"github.com/ZuInnoTe/ZuStDPipe/modules"
	"github.com/ZuInnoTe/ZuStDPipe/modules/library"
)

type fakeInstance struct{ path string }

func (f *fakeInstance) ExecFunc(_, dataBytes []byte) ([]byte, *errs.LibraryInstanceError) {
	return dataBytes, nil
}

func (f *fakeInstance) Close() error { return nil }

type fakeLibraryManager struct {
	instances []string
}

func (f *fakeLibraryManager) GetInstance(path string) (library.Instance, *errs.LibraryDefinitionError) {
	f.instances = append(f.instances, path)
	return &fakeInstance{path: path}, nil
}

func newFactory(m *fakeLibraryManager) func() (library.Manager, error) {
	return func() (library.Manager, error) { return m, nil }
}

func TestNewManagerRejectsMissingWasmSection(t *testing.T) {
	_, err := modules.NewManager(modules.ModulesDefinition{}, newFactory(&fakeLibraryManager{}), modules.PathExists)
	require.Error(t, err)
	assert.Equal(t, errs.ModulePathInvalid, err.Kind)
}

func TestNewManagerRejectsNonexistentSearchPath(t *testing.T) {
	def := modules.ModulesDefinition{Wasm: &modules.WasmModulesDefinition{ModulePathBase: []string{"/no/such/path"}}}
	_, err := modules.NewManager(def, newFactory(&fakeLibraryManager{}), modules.PathExists)
	require.Error(t, err)
	assert.Equal(t, errs.ModulePathInvalid, err.Kind)
}

func TestGetModuleInstanceResolvesFirstMatchingSearchPath(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dirA, "echo.wasm"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "echo.wasm"), []byte("b"), 0o644))

	def := modules.ModulesDefinition{Wasm: &modules.WasmModulesDefinition{ModulePathBase: []string{dirA, dirB}}}
	fake := &fakeLibraryManager{}
	mgr, err := modules.NewManager(def, newFactory(fake), modules.PathExists)
	require.Nil(t, err)

	instance, instErr := mgr.GetModuleInstance(modules.Wasm, "echo.wasm")
	require.Nil(t, instErr)
	require.NotNil(t, instance)
	require.Len(t, fake.instances, 1)
	assert.Equal(t, filepath.Join(dirA, "echo.wasm"), fake.instances[0])
}

func TestGetModuleInstanceModuleNotFound(t *testing.T) {
	dirA := t.TempDir()
	def := modules.ModulesDefinition{Wasm: &modules.WasmModulesDefinition{ModulePathBase: []string{dirA}}}
	mgr, err := modules.NewManager(def, newFactory(&fakeLibraryManager{}), modules.PathExists)
	require.Nil(t, err)

	_, instErr := mgr.GetModuleInstance(modules.Wasm, "absent.wasm")
	require.NotNil(t, instErr)
	assert.Equal(t, errs.ModuleNotFound, instErr.Kind)
}

func TestGetModuleInstanceUnknownBackend(t *testing.T) {
	dirA := t.TempDir()
	def := modules.ModulesDefinition{Wasm: &modules.WasmModulesDefinition{ModulePathBase: []string{dirA}}}
	mgr, err := modules.NewManager(def, newFactory(&fakeLibraryManager{}), modules.PathExists)
	require.Nil(t, err)

	_, instErr := mgr.GetModuleInstance(modules.ModuleType("native"), "whatever")
	require.NotNil(t, instErr)
	assert.Equal(t, errs.ModuleTypeNotFound, instErr.Kind)
}
