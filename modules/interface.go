// Package modules resolves a process's module reference to a running
// instance, dispatching across backends by ModuleType. Only the Wasm
// backend exists today; Manager.GetModuleInstance is the one place a
// second backend would be wired in.
package modules

import (
	"github.com/ZuInnoTe/ZuStDPipe/errs"
	"github.com/ZuInnoTe/ZuStDPipe/modules/library"
)

// ModuleType selects which backend loads a process's module.
type ModuleType string

// Wasm is the only backend this specification implements.
const Wasm ModuleType = "wasm"

// WasmModulesDefinition is the Wasm-specific section of ModulesDefinition.
type WasmModulesDefinition struct {
	ModulePathBase []string `yaml:"module_path_base"`
}

// ModulesDefinition is the configuration the host loads once per
// application: an optional per-backend section naming module search paths.
// Additional backend sections are added independently as new ModuleType
// values are introduced.
type ModulesDefinition struct {
	Wasm *WasmModulesDefinition `yaml:"wasm"`
}

// Manager resolves process module requirements to library instances. It is
// constructed once per application and reused across every job run.
type Manager struct {
	wasmLibraryManager library.Manager
	modulePaths        []string
}

// NewManager validates every configured search path and builds the backend
// registries that exist in modules_definition. A nil Wasm section is
// ModulePathInvalid("no path to modules given"), matching the source
// behavior of treating "no backend configured at all" as a path error
// rather than silently running with no backends.
func NewManager(def ModulesDefinition, wasmManagerFactory func() (library.Manager, error), pathExists func(string) bool) (*Manager, *errs.ModuleDefinitionError) {
	if def.Wasm == nil {
		return nil, errs.NewModulePathInvalid("no path to modules given")
	}
	for _, p := range def.Wasm.ModulePathBase {
		if !pathExists(p) {
			return nil, errs.NewModulePathInvalid("Module path %q does not exist", p)
		}
	}
	wasmLibraryManager, err := wasmManagerFactory()
	if err != nil {
		return nil, errs.NewModulePathInvalid("could not start wasm library manager: %s", err)
	}
	return &Manager{
		wasmLibraryManager: wasmLibraryManager,
		modulePaths:        append([]string(nil), def.Wasm.ModulePathBase...),
	}, nil
}

// GetModuleInstance resolves a module reference to a fresh library.Instance: first by
// backend (dispatched on moduleType), then by scanning the configured
// search paths in declaration order for the first one containing
// moduleName. Resolution is deterministic but not cached — adding a file to
// an earlier search path changes subsequent resolutions.
func (m *Manager) GetModuleInstance(moduleType ModuleType, moduleName string) (library.Instance, *errs.ModuleDefinitionError) {
	var backend library.Manager
	switch moduleType {
	case Wasm:
		if m.wasmLibraryManager == nil {
			return nil, errs.NewModuleTypeNotFound("no library manager found for %q", moduleType)
		}
		backend = m.wasmLibraryManager
	default:
		return nil, errs.NewModuleTypeNotFound("no library manager found for %q", moduleType)
	}

	fullPath, err := m.resolve(moduleName)
	if err != nil {
		return nil, err
	}

	instance, instErr := backend.GetInstance(fullPath)
	if instErr != nil {
		return nil, errs.NewModuleCannotBeInstantiated(instErr)
	}
	return instance, nil
}

func (m *Manager) resolve(name string) (string, *errs.ModuleDefinitionError) {
	for _, base := range m.modulePaths {
		full := base + "/" + name
		if fileExists(full) {
			return full, nil
		}
	}
	return "", errs.NewModuleNotFound("could not find module %q in module paths", name)
}
