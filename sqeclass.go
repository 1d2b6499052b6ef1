package uringio

import (
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

// sqeSlotSize is the physical stride of one submission-queue slot as laid
// out by the kernel: always 64 bytes. Sqe128 and SqeMix both address wider
// logical entries by spanning two consecutive 64-byte slots in userspace;
// the kernel itself never sees a 128-byte SQE stride from this library
// (IORING_SETUP_SQE128 is never set by any SQEClass).
const sqeSlotSize = int(unsafe.Sizeof(sys.SQE{}))

var _ [sqeSlotSize - 64]byte // compile-time layout assertion: sys.SQE must be exactly 64 bytes

// SQEClass is a compile-time marker selecting the logical shape of entries
// pushed onto a ring's submission queue: one 64-byte slot (Sqe64), two
// consecutive 64-byte slots read as one 128-byte entry (Sqe128), or a
// per-push choice between the two (SqeMix). Sealed to this package's three
// implementations.
type SQEClass interface {
	slotsPerEntry() uint32
	setupFlags() uint32
	sealedSQEClass()
}

// WideCapable is implemented only by SQEClass markers that support 128-byte
// (two-slot) entries. PushWide is generic over WideCapable rather than
// SQEClass, so passing a *Submitter[M, Sqe64, C] to PushWide is a compile
// error, not a runtime check.
type WideCapable interface {
	SQEClass
	sealedWideCapable()
}

// Sqe64 selects uniform 64-byte submission entries — one slot per push, the
// shape the teacher library exclusively supports.
type Sqe64 struct{}

func (Sqe64) slotsPerEntry() uint32 { return 1 }
func (Sqe64) setupFlags() uint32    { return 0 }
func (Sqe64) sealedSQEClass()       {}

// Sqe128 selects uniform 128-byte submission entries — two consecutive
// slots per push, both written before the tail is advanced.
type Sqe128 struct{}

func (Sqe128) slotsPerEntry() uint32 { return 2 }

// setupFlags never sets IORING_SETUP_SQE128: like SqeMix, Sqe128 entries are
// addressed as two consecutive 64-byte slots throughout this library
// (Submitter.reserve, sqeSlot indexing), never as a single kernel-enforced
// 128-byte stride, so no corresponding kernel flag is requested.
func (Sqe128) setupFlags() uint32 { return 0 }
func (Sqe128) sealedSQEClass()    {}
func (Sqe128) sealedWideCapable() {}

// SqeMix selects a ring whose entries are 64 bytes by default but may be
// widened to 128 bytes on a per-push basis via PushWide. A wide push that
// would wrap past the end of the slot array is padded with a one-slot Nop
// carrying IOSQE_CQE_SKIP_SUCCESS, so the wide entry always starts at slot
// 0 and never splits across the array boundary.
type SqeMix struct{}

func (SqeMix) slotsPerEntry() uint32 { return 1 }

// setupFlags never sets IORING_SETUP_SQE128: SqeMix's wide entries are a
// userspace two-slot-spanning convention layered over an ordinary 64-byte
// ring, not a real uniform kernel stride.
func (SqeMix) setupFlags() uint32 { return 0 }
func (SqeMix) sealedSQEClass()    {}
func (SqeMix) sealedWideCapable() {}

var (
	_ SQEClass    = Sqe64{}
	_ SQEClass    = Sqe128{}
	_ SQEClass    = SqeMix{}
	_ WideCapable = Sqe128{}
	_ WideCapable = SqeMix{}
)
