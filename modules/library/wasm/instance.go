package wasm

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero/api"

	"github.com/ZuInnoTe/ZuStDPipe/errs"
	"github.com/ZuInnoTe/ZuStDPipe/modules/library"
)

const (
	exportAllocate   = "wasm_allocate"
	exportDeallocate = "wasm_deallocate"
	exportEntry      = "raw_process_entry"
	exportMemory     = "memory"
)

// LibraryInstance owns one instantiated module + its store and implements
// the host-side marshalling protocol (exec_func) described in the Wasm
// module ABI: allocate guest buffers, write the inputs, invoke the entry
// point, read back the result descriptor and its payload, then release
// every guest allocation the call touched.
type LibraryInstance struct {
	ctx    context.Context
	path   string
	mod    api.Module
	memory api.Memory

	fnAllocate   api.Function
	fnDeallocate api.Function
	fnEntry      api.Function

	log zerolog.Logger

	closed atomic.Bool
}

var _ library.Instance = (*LibraryInstance)(nil)

func newLibraryInstance(ctx context.Context, mod api.Module, path string, log zerolog.Logger) (*LibraryInstance, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, errs.Newf("module %q does not export %q", path, exportMemory)
	}

	alloc := mod.ExportedFunction(exportAllocate)
	dealloc := mod.ExportedFunction(exportDeallocate)
	entry := mod.ExportedFunction(exportEntry)
	if alloc == nil || dealloc == nil || entry == nil {
		return nil, errs.Newf("module %q is missing a required ABI export (%s, %s, %s)", path, exportAllocate, exportDeallocate, exportEntry)
	}

	return &LibraryInstance{
		ctx:          ctx,
		path:         path,
		mod:          mod,
		memory:       mem,
		fnAllocate:   alloc,
		fnDeallocate: dealloc,
		fnEntry:      entry,
		log:          log.With().Str("module_path", path).Logger(),
	}, nil
}

// ExecFunc runs the guest's process entry point on metaBytes and dataBytes
// and returns its result, following the nine-step protocol in the Wasm
// Library Instance design: allocate, write, invoke, release inputs, read
// the result descriptor, read the result, release outputs.
func (i *LibraryInstance) ExecFunc(metaBytes, dataBytes []byte) ([]byte, *errs.LibraryInstanceError) {
	metaPtr, err := i.allocateAndWrite(metaBytes)
	if err != nil {
		return nil, instErr(err)
	}
	dataPtr, err := i.allocateAndWrite(dataBytes)
	if err != nil {
		_ = i.deallocate(metaPtr)
		return nil, instErr(err)
	}

	results, callErr := i.fnEntry.Call(i.ctx,
		uint64(metaPtr), uint64(len(metaBytes)),
		uint64(dataPtr), uint64(len(dataBytes)),
	)

	// Best-effort release of the inputs regardless of what the call did;
	// non-zero return codes are logged but non-fatal, since the instance is
	// about to be dropped either way.
	if rc := i.deallocate(metaPtr); rc != 0 {
		i.log.Debug().Int32("code", rc).Msg("wasm_deallocate(meta_ptr) returned non-zero")
	}
	if rc := i.deallocate(dataPtr); rc != 0 {
		i.log.Debug().Int32("code", rc).Msg("wasm_deallocate(data_ptr) returned non-zero")
	}

	if callErr != nil {
		return nil, instErr(fmt.Errorf("guest trapped in %s: %w", exportEntry, callErr))
	}

	resultDescPtr := uint32(results[0])
	if resultDescPtr == 0 {
		return nil, instErr(fmt.Errorf("%s returned 0 (error sentinel)", exportEntry))
	}

	resultPtr, resultLen, err := i.readDescriptor(resultDescPtr)
	// Step 8 must happen even if step 7 (reading the result) is about to
	// fail, to bound guest memory growth.
	defer func() {
		if rc := i.deallocate(resultDescPtr); rc != 0 {
			i.log.Debug().Int32("code", rc).Msg("wasm_deallocate(result_desc_ptr) returned non-zero")
		}
		if resultPtr != 0 {
			if rc := i.deallocate(resultPtr); rc != 0 {
				i.log.Debug().Int32("code", rc).Msg("wasm_deallocate(result_ptr) returned non-zero")
			}
		}
	}()
	if err != nil {
		return nil, instErr(err)
	}

	if resultLen == 0 {
		return []byte{}, nil
	}

	buf, ok := i.memory.Read(resultPtr, resultLen)
	if !ok {
		return nil, instErr(fmt.Errorf("result descriptor (ptr=%d, len=%d) points outside memory (size=%d)", resultPtr, resultLen, i.memory.Size()))
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// allocateAndWrite calls wasm_allocate(len(data)) and copies data into the
// returned region. A zero-length buffer is still allocated and written (a
// no-op write), matching the "meta_len == 0 or data_len == 0" edge case:
// the call still proceeds with a zero-length guest buffer.
func (i *LibraryInstance) allocateAndWrite(data []byte) (uint32, error) {
	results, err := i.fnAllocate.Call(i.ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("calling %s: %w", exportAllocate, err)
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("%s returned 0 (out of guest memory) for size %d", exportAllocate, len(data))
	}
	if len(data) > 0 && !i.memory.Write(ptr, data) {
		return 0, fmt.Errorf("writing %d bytes at ptr=%d: out of bounds (memory size=%d)", len(data), ptr, i.memory.Size())
	}
	return ptr, nil
}

// deallocate calls wasm_deallocate(ptr) and returns its status code. ptr==0
// is treated as already-released and not sent to the guest.
func (i *LibraryInstance) deallocate(ptr uint32) int32 {
	if ptr == 0 {
		return 0
	}
	results, err := i.fnDeallocate.Call(i.ctx, uint64(ptr))
	if err != nil {
		i.log.Debug().Err(err).Uint32("ptr", ptr).Msg("wasm_deallocate trapped")
		return -1
	}
	return int32(results[0])
}

// readDescriptor reads the 8-byte little-endian (data_ptr, data_len) result
// descriptor at ptr.
func (i *LibraryInstance) readDescriptor(ptr uint32) (dataPtr, dataLen uint32, err error) {
	buf, ok := i.memory.Read(ptr, 8)
	if !ok {
		return 0, 0, fmt.Errorf("result descriptor at ptr=%d is out of bounds (memory size=%d)", ptr, i.memory.Size())
	}
	dataPtr = binary.LittleEndian.Uint32(buf[0:4])
	dataLen = binary.LittleEndian.Uint32(buf[4:8])
	return dataPtr, dataLen, nil
}

// Close releases the instance's store and linear memory. Safe to call more
// than once.
func (i *LibraryInstance) Close() error {
	if !i.closed.CompareAndSwap(false, true) {
		return nil
	}
	return i.mod.Close(i.ctx)
}

func instErr(err error) *errs.LibraryInstanceError {
	return &errs.LibraryInstanceError{Cause: err}
}
