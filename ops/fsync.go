package ops

import "github.com/lattice-io/uringio/internal/sys"

// FsyncDataSync requests fdatasync semantics (data only, not metadata) when
// set as the Flags argument to Fsync.
const FsyncDataSync = sys.IORING_FSYNC_DATASYNC

// Fsync builds an fsync/fdatasync operation against fd. flags is normally
// 0 or FsyncDataSync.
func Fsync(fd FdSource, flags uint32, userData uint64) sys.SQE {
	sqe := sys.SQE{
		Opcode:   uint8(sys.IORING_OP_FSYNC),
		OpFlags:  flags,
		UserData: userData,
	}
	fd.apply(&sqe)
	return sqe
}
