package guest

import (
	"encoding/binary"

	"github.com/ZuInnoTe/ZuStDPipe/arrowcodec"
)

// Parameters is what a Process sees per invocation: the process's ordered
// parameters (decoded from the metadata buffer) and the data payload
// flowing through the pipeline, handed through unopened — a Process is
// free to read it as Arrow IPC itself, or ignore it.
type Parameters struct {
	Entries []arrowcodec.Param
	Data    []byte
}

// Result is what a Process hands back to raw_process_entry.
type Result struct {
	Data []byte
}

// Process is the interface a Go-authored module implements; see
// guest/echo for the reference implementation grounded on
// zustdp-module-process-echo.
type Process interface {
	Execute(params Parameters) (*Result, error)
}

// active is set once, by the concrete module's init(), to the Process this
// compiled module runs. There is exactly one per compiled module — the ABI
// has no notion of naming multiple processes within one module.
var active Process

// Register installs proc as the module's process. Call this from init() in
// the module's main package.
func Register(proc Process) {
	active = proc
}

//export raw_process_entry
func rawProcessEntry(metaPtr, metaLen, dataPtr, dataLen uint32) uint32 {
	if active == nil {
		return 0
	}

	metaBytes := readInput(metaPtr, metaLen)
	dataBytes := readInput(dataPtr, dataLen)
	if metaBytes == nil || dataBytes == nil {
		return 0
	}

	params, err := arrowcodec.DecodeParameters(metaBytes)
	if err != nil {
		return 0
	}

	result, err := active.Execute(Parameters{Entries: params, Data: dataBytes})
	if err != nil || result == nil {
		return 0
	}

	return writeResult(result.Data)
}

// readInput returns a copy of the len bytes the host wrote at ptr,
// tolerating a zero-length buffer (readers must tolerate zero-batch
// Arrow streams, and an empty byte range is a valid input).
func readInput(ptr, length uint32) []byte {
	buf := bytesAt(ptr)
	if buf == nil {
		return nil
	}
	if uint32(len(buf)) != length {
		return nil
	}
	out := make([]byte, length)
	copy(out, buf)
	return out
}

// writeResult allocates the result payload plus its 8-byte little-endian
// (data_ptr, data_len) descriptor and returns the descriptor's pointer, per
// the Result descriptor layout in the Module ABI.
func writeResult(data []byte) uint32 {
	dataPtr := wasmAllocate(uint32(len(data)))
	if dataPtr == 0 {
		return 0
	}
	copy(bytesAt(dataPtr), data)

	descPtr := wasmAllocate(8)
	if descPtr == 0 {
		wasmDeallocate(dataPtr)
		return 0
	}
	desc := bytesAt(descPtr)
	binary.LittleEndian.PutUint32(desc[0:4], dataPtr)
	binary.LittleEndian.PutUint32(desc[4:8], uint32(len(data)))
	return descPtr
}
