package ops

import (
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

// Write builds a plain write: len(buf) bytes from buf to dst at offset.
// buf must stay alive and unmoved until the completion is collected.
func Write(dst FdSource, buf []byte, offset uint64, userData uint64) sys.SQE {
	sqe := sys.SQE{
		Opcode:   uint8(sys.IORING_OP_WRITE),
		Off:      offset,
		Len:      uint32(len(buf)),
		UserData: userData,
	}
	if len(buf) > 0 {
		sqe.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	}
	dst.apply(&sqe)
	return sqe
}

// WriteFixed builds a write against a buffer previously registered with
// Ring.RegisterBuffers.
func WriteFixed(dst FdSource, buf []byte, offset uint64, bufIndex uint16, userData uint64) sys.SQE {
	sqe := Write(dst, buf, offset, userData)
	sqe.Opcode = uint8(sys.IORING_OP_WRITE_FIXED)
	sqe.BufIndex = bufIndex
	return sqe
}
