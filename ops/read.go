package ops

import (
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

// Read builds a plain read: up to len(buf) bytes from src at offset into
// buf. buf must stay alive and unmoved until the completion carrying
// userData is collected — the kernel holds a raw pointer into it.
func Read(src FdSource, buf []byte, offset uint64, userData uint64) sys.SQE {
	sqe := sys.SQE{
		Opcode:   uint8(sys.IORING_OP_READ),
		Off:      offset,
		Len:      uint32(len(buf)),
		UserData: userData,
	}
	if len(buf) > 0 {
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	src.apply(&sqe)
	return sqe
}

// ReadFixed builds a read against a buffer previously registered with
// Ring.RegisterBuffers, identified by bufIndex, letting the kernel skip
// the per-call page pinning.
func ReadFixed(src FdSource, buf []byte, offset uint64, bufIndex uint16, userData uint64) sys.SQE {
	sqe := Read(src, buf, offset, userData)
	sqe.Opcode = uint8(sys.IORING_OP_READ_FIXED)
	sqe.BufIndex = bufIndex
	return sqe
}
