// Package ops builds sys.SQE values for individual operations. Each
// constructor returns a plain, immediately-pushable sys.SQE rather than
// mutating one in place — the caller pushes it through a Submitter cursor.
// Grounded on the teacher's Prep* catalogue (sqe.go) and, for the
// descriptor-source split, on the reference implementation's
// operator/fd.rs.
package ops

import "github.com/lattice-io/uringio/internal/sys"

// FdSource supplies the file-descriptor-shaped fields of an SQE: either a
// plain, process-table fd (PlainFd) or a slot in the ring's registered
// file table (FixedFd). Sealed to this package's two implementations.
type FdSource interface {
	apply(sqe *sys.SQE)
	sealedFdSource()
}

// PlainFd addresses an ordinary process file descriptor.
type PlainFd int

func (f PlainFd) apply(sqe *sys.SQE) { sqe.Fd = int32(f) }
func (PlainFd) sealedFdSource()      {}

// FixedFd addresses a slot in the ring's registered file table (see
// Ring.RegisterFiles), letting the kernel skip the per-call fd-table
// lookup. The SQE must additionally carry IOSQE_FIXED_FILE, which the
// operation constructors set automatically when given a FixedFd.
type FixedFd int32

func (f FixedFd) apply(sqe *sys.SQE) {
	sqe.Fd = int32(f)
	sqe.Flags |= sys.IOSQE_FIXED_FILE
}
func (FixedFd) sealedFdSource() {}

var (
	_ FdSource = PlainFd(0)
	_ FdSource = FixedFd(0)
)
