package uringio

import (
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

const cqe16Size = int(unsafe.Sizeof(sys.CQE{}))
const cqe32Size = int(unsafe.Sizeof(sys.CQE32{}))

var _ [cqe16Size - 16]byte // compile-time layout assertion: sys.CQE must be 16 bytes
var _ [cqe32Size - 32]byte // compile-time layout assertion: sys.CQE32 must be 32 bytes

// CQEClass is a compile-time marker selecting the logical shape of entries
// read off a ring's completion queue: plain 16-byte completions (Cqe16),
// uniform 32-byte completions carrying a 16-byte extension (Cqe32), or a
// per-entry choice between the two (CqeMix). Sealed to this package's three
// implementations.
//
// CqeMix's accessor reports a base size of 16 bytes (the fields every
// completion carries: user data, result, flags) regardless of the physical
// ring stride; the extension words, when present, live in the remaining 16
// bytes of what is always a 32-byte-stride ring underneath, and are reached
// through Ext rather than through the base Next result.
type CQEClass interface {
	// cqeSize is the logical completion size reported to callers: 16 for
	// Cqe16 and for CqeMix, whose extension words are reached through Ext
	// rather than inflating this value, and 32 for Cqe32.
	cqeSize() uint32
	cqeStride() uint32
	cqeSetupFlags() uint32
	sealedCQEClass()
}

// ExtCapable is implemented only by CQEClass markers whose ring carries the
// 16-byte extension words. Ext is generic over ExtCapable rather than
// CQEClass, so calling it on a Collector[M, S, Cqe16] is a compile error.
type ExtCapable interface {
	CQEClass
	sealedExtCapable()
}

// Cqe16 selects the plain completion shape — one 16-byte entry per slot,
// the shape the teacher library exclusively supports.
type Cqe16 struct{}

func (Cqe16) cqeSize() uint32       { return 16 }
func (Cqe16) cqeStride() uint32     { return 16 }
func (Cqe16) cqeSetupFlags() uint32 { return 0 }
func (Cqe16) sealedCQEClass()       {}

// Cqe32 selects IORING_SETUP_CQE32: every slot is 32 bytes, and the trailing
// 16 bytes are always valid.
type Cqe32 struct{}

func (Cqe32) cqeSize() uint32       { return 32 }
func (Cqe32) cqeStride() uint32     { return 32 }
func (Cqe32) cqeSetupFlags() uint32 { return sys.IORING_SETUP_CQE32 }
func (Cqe32) sealedCQEClass()       {}
func (Cqe32) sealedExtCapable()     {}

// CqeMix selects a 32-byte-stride ring (so extension words have somewhere
// to live) whose entries individually flag, via IORING_CQE_F_EXT32 in the
// base completion's Flags word, whether their trailing 16 bytes are
// meaningful for that particular completion.
type CqeMix struct{}

func (CqeMix) cqeSize() uint32       { return 16 }
func (CqeMix) cqeStride() uint32     { return 32 }
func (CqeMix) cqeSetupFlags() uint32 { return sys.IORING_SETUP_CQE32 }
func (CqeMix) sealedCQEClass()       {}
func (CqeMix) sealedExtCapable()     {}

var (
	_ CQEClass   = Cqe16{}
	_ CQEClass   = Cqe32{}
	_ CQEClass   = CqeMix{}
	_ ExtCapable = Cqe32{}
	_ ExtCapable = CqeMix{}
)
