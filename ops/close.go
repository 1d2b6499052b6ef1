package ops

import "github.com/lattice-io/uringio/internal/sys"

// Close builds a close operation against fd.
func Close(fd FdSource, userData uint64) sys.SQE {
	sqe := sys.SQE{
		Opcode:   uint8(sys.IORING_OP_CLOSE),
		UserData: userData,
	}
	fd.apply(&sqe)
	return sqe
}
