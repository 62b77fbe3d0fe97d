package guest

import "testing"

func TestAllocatorBijection(t *testing.T) {
	sizes := []uint32{0, 1, 8, 64, 0, 3}
	ptrs := make([]uint32, len(sizes))
	for i, s := range sizes {
		ptrs[i] = wasmAllocate(s)
		if got := validatePointer(ptrs[i]); got != s {
			t.Fatalf("validatePointer(%d) = %d, want %d", ptrs[i], got, s)
		}
	}
	for i, p := range ptrs {
		if rc := wasmDeallocate(p); rc != 0 {
			t.Fatalf("wasmDeallocate(%d) = %d, want 0", p, rc)
		}
		if got := validatePointer(p); got != 0 {
			t.Fatalf("validatePointer(%d) after dealloc = %d, want 0", p, got)
		}
		_ = i
	}
}

func TestDeallocateUnknownPointerIsNoop(t *testing.T) {
	if rc := wasmDeallocate(0xdeadbeef); rc != -1 {
		t.Fatalf("wasmDeallocate(unregistered) = %d, want -1", rc)
	}
}

func TestBytesAtRespectsLogicalLength(t *testing.T) {
	ptr := wasmAllocate(4)
	defer wasmDeallocate(ptr)

	buf := bytesAt(ptr)
	if len(buf) != 4 {
		t.Fatalf("len(bytesAt) = %d, want 4", len(buf))
	}
	copy(buf, []byte{1, 2, 3, 4})
	if got := bytesAt(ptr); got[0] != 1 || got[3] != 4 {
		t.Fatalf("bytesAt did not round-trip writes: %v", got)
	}
}

func TestZeroSizeAllocationGetsDistinctAddress(t *testing.T) {
	a := wasmAllocate(0)
	b := wasmAllocate(0)
	defer wasmDeallocate(a)
	defer wasmDeallocate(b)

	if a == 0 || b == 0 {
		t.Fatalf("zero-size allocation returned null pointer: a=%d b=%d", a, b)
	}
	if a == b {
		t.Fatalf("two live zero-size allocations aliased the same address")
	}
}
