package ops

import (
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

const sqe64Size = int(unsafe.Sizeof(sys.SQE{}))

var _ [sqe64Size - 64]byte // compile-time layout assertion (Testable Property 1)

// Nop builds a no-op submission entry: it produces exactly one completion
// and touches no file or buffer. Useful for round-trip testing and for
// manually nudging an SqPollMode ring's poller thread.
func Nop(userData uint64) sys.SQE {
	return sys.SQE{
		Opcode:   uint8(sys.IORING_OP_NOP),
		UserData: userData,
	}
}

// Nop128Ext is the 64-byte extension half of a wide no-op, pushed via
// PushWide. Its contents are opaque to the kernel; Nop128 is mainly useful
// for exercising the Sqe128/SqeMix wide-entry path end to end without
// needing a real file descriptor.
type Nop128Ext [64]byte

// Nop128 builds the base half of a wide no-op, paired with a Nop128Ext via
// PushWide against a WideCapable ring.
func Nop128(userData uint64) sys.SQE {
	return Nop(userData)
}
