package uringio

import "github.com/lattice-io/uringio/internal/sys"

// Arena owns the memory backing a ring's SQ ring, CQ ring, and SQE array,
// and knows how to release it. The teacher library inlines this as
// *Ring.mapRings; splitting it out lets a ring be backed either by memory
// the kernel mmaps against the ring fd (FileBackedArena, the only form the
// teacher supports) or by memory the caller supplies up front via
// IORING_SETUP_NO_MMAP (AnonymousArena).
type Arena interface {
	// Map sizes and obtains the three regions for the given ring
	// parameters, returning pointers into them. fd is the io_uring file
	// descriptor; params reflects what the kernel wrote back from Setup.
	// cqeStride is the physical size in bytes of one completion-queue slot
	// (16 for Cqe16, 32 for Cqe32/CqeMix) — the CQ ring must be sized
	// against it, not against sizeof(CQE), or CqeMix/Cqe32 rings map too
	// little memory and fault once the CQ spans more than one page.
	Map(fd int, params *sys.Params, cqeStride uint32) (sqRing, cqRing, sqes []byte, err error)

	// Release unmaps everything Map obtained. Safe to call on a
	// partially-mapped arena (Map itself calls it on its own failure
	// paths) and safe to call more than once.
	Release()
}
