// Package library defines the backend-agnostic contract every module
// execution technology implements: a Manager that compiles and
// instantiates modules by path, and an Instance that owns one instantiation
// and exposes the host-side marshalling protocol.
package library

import "github.com/ZuInnoTe/ZuStDPipe/errs"

// Instance is a single instantiated, exclusively-owned module. It is
// created on demand per process invocation and dropped (via Close) when the
// invocation completes; this specification does not pool instances.
type Instance interface {
	// ExecFunc runs the module's process entry point, handing it metaBytes
	// and dataBytes through the backend's memory-sharing ABI, and returns
	// the module's result bytes.
	ExecFunc(metaBytes, dataBytes []byte) ([]byte, *errs.LibraryInstanceError)

	// Close releases the instance's store and linear memory. Safe to call
	// more than once.
	Close() error
}

// Manager caches compiled modules by path and instantiates them on demand.
// A Manager is not internally synchronized: it must be used from one actor
// (here, one Job Runner) at a time. Entries are never evicted.
type Manager interface {
	// GetInstance idempotently compiles path (on first sight) and returns a
	// fresh Instance over the cached compiled module.
	GetInstance(path string) (Instance, *errs.LibraryDefinitionError)
}
