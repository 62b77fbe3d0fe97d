package guest

import (
	"encoding/binary"
	"testing"

	"github.com/ZuInnoTe/ZuStDPipe/arrowcodec"
)

type fixedProcess struct{ out []byte }

func (f fixedProcess) Execute(Parameters) (*Result, error) {
	return &Result{Data: f.out}, nil
}

func writeInput(t *testing.T, data []byte) (ptr, length uint32) {
	t.Helper()
	ptr = wasmAllocate(uint32(len(data)))
	copy(bytesAt(ptr), data)
	return ptr, uint32(len(data))
}

func readDescriptor(t *testing.T, descPtr uint32) []byte {
	t.Helper()
	desc := bytesAt(descPtr)
	if len(desc) != 8 {
		t.Fatalf("descriptor length = %d, want 8", len(desc))
	}
	dataPtr := binary.LittleEndian.Uint32(desc[0:4])
	dataLen := binary.LittleEndian.Uint32(desc[4:8])
	if dataLen == 0 {
		return []byte{}
	}
	buf := bytesAt(dataPtr)
	if uint32(len(buf)) != dataLen {
		t.Fatalf("result buffer length = %d, want %d", len(buf), dataLen)
	}
	out := make([]byte, dataLen)
	copy(out, buf)
	return out
}

func TestRawProcessEntryEchoesFixedResult(t *testing.T) {
	Register(fixedProcess{out: []byte{0x01, 0x02, 0x03}})
	defer func() { active = nil }()

	metaBytes, err := arrowcodec.EncodeParameters([]arrowcodec.Param{{Key: "k", Value: "v"}})
	if err != nil {
		t.Fatalf("EncodeParameters: %v", err)
	}
	metaPtr, metaLen := writeInput(t, metaBytes)
	dataPtr, dataLen := writeInput(t, []byte("irrelevant"))

	descPtr := rawProcessEntry(metaPtr, metaLen, dataPtr, dataLen)
	if descPtr == 0 {
		t.Fatalf("rawProcessEntry returned 0")
	}

	got := readDescriptor(t, descPtr)
	want := []byte{0x01, 0x02, 0x03}
	if string(got) != string(want) {
		t.Fatalf("result = %v, want %v", got, want)
	}
}

func TestRawProcessEntryZeroLengthResult(t *testing.T) {
	Register(fixedProcess{out: []byte{}})
	defer func() { active = nil }()

	metaBytes, _ := arrowcodec.EncodeParameters(nil)
	metaPtr, metaLen := writeInput(t, metaBytes)
	dataPtr, dataLen := writeInput(t, nil)

	descPtr := rawProcessEntry(metaPtr, metaLen, dataPtr, dataLen)
	if descPtr == 0 {
		t.Fatalf("rawProcessEntry returned 0 for a valid zero-length result")
	}
	got := readDescriptor(t, descPtr)
	if len(got) != 0 {
		t.Fatalf("result = %v, want empty", got)
	}
}

func TestRawProcessEntryNoActiveProcess(t *testing.T) {
	active = nil
	if got := rawProcessEntry(0, 0, 0, 0); got != 0 {
		t.Fatalf("rawProcessEntry with no registered process = %d, want 0", got)
	}
}
