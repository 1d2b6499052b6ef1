package ops

import (
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

// Timeout builds a standalone timeout: the completion fires once ts has
// elapsed, or once count other completions have occurred if count > 0 (a
// "completion count" timeout rather than a wall-clock one). ts must stay
// alive and unmoved until the completion is collected.
func Timeout(ts *sys.Timespec, count uint32, userData uint64) sys.SQE {
	return sys.SQE{
		Opcode:   uint8(sys.IORING_OP_TIMEOUT),
		Addr:     uint64(uintptr(unsafe.Pointer(ts))),
		Len:      1,
		Off:      uint64(count),
		UserData: userData,
	}
}

// TimeoutRemove builds an operation that cancels a previously submitted
// Timeout identified by its user-data tag.
func TimeoutRemove(targetUserData uint64, userData uint64) sys.SQE {
	return sys.SQE{
		Opcode:   uint8(sys.IORING_OP_TIMEOUT_REMOVE),
		Addr:     targetUserData,
		UserData: userData,
	}
}
