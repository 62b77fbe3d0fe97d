// Package guest is linked into Go-authored process modules so they can
// participate in the host's allocate/call/read/deallocate protocol without
// reimplementing it. It is built as part of a TinyGo wasip1 module,
// exporting exactly the three host-facing ABI functions the host's Wasm
// Library Instance expects: wasm_allocate, wasm_deallocate, and
// raw_process_entry (process.go).
//
// The design — a registry keyed by pointer, holding (size, owning buffer) —
// follows zustdpipe-modules-library/src/modules/wasm.rs, translated from a
// thread_local Rust HashMap to a package-level map guarded by the fact that
// a wasm32 module is single-threaded: there is exactly one goroutine ever
// running inside a given instance.
package guest

import "unsafe"

type allocation struct {
	size uint32
	buf  []byte
}

// registry is the MemoryRegistry: every pointer wasm_allocate has handed
// out and not yet had deallocated. registry is guest-local state — each
// compiled module gets its own, and the host never inspects it directly.
var registry = make(map[uint32]allocation)

//export wasm_allocate
func wasmAllocate(size uint32) uint32 {
	// Always back the allocation with at least one real byte so a
	// zero-length request still gets a stable, registrable, non-zero
	// address, and so the map holds a live reference that keeps the
	// backing array from being collected.
	backingLen := size
	if backingLen == 0 {
		backingLen = 1
	}
	buf := make([]byte, backingLen)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	// Registration is idempotent per pointer by construction: a freshly
	// allocated Go slice never aliases a live registry entry.
	registry[ptr] = allocation{size: size, buf: buf}
	return ptr
}

//export wasm_deallocate
func wasmDeallocate(ptr uint32) int32 {
	if _, ok := registry[ptr]; !ok {
		return -1
	}
	delete(registry, ptr)
	return 0
}

// validatePointer returns the recorded size for ptr, or 0 if ptr is not a
// live allocation. 0 is never itself a valid pointer to a registered
// allocation: every backing buffer above is at least one byte, and the Go
// allocator never places a live object at address 0.
func validatePointer(ptr uint32) uint32 {
	a, ok := registry[ptr]
	if !ok {
		return 0
	}
	return a.size
}

// bytesAt returns the logical (possibly zero-length) view of the buffer
// backing ptr, or nil if ptr is not registered.
func bytesAt(ptr uint32) []byte {
	a, ok := registry[ptr]
	if !ok {
		return nil
	}
	return a.buf[:a.size]
}
