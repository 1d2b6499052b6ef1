//go:build linux

// Package uringio provides a type-state-checked io_uring interface for Go.
// A Ring is parameterised over three independent axes, each resolved at
// compile time: Mode (how the ring is driven), SQEClass (the shape of
// submission entries) and CQEClass (the shape of completion entries).
// Operations that only make sense for a subset of these — a wide push
// against a 128-byte-capable ring, reading the extension words of an
// extended completion — are expressed as free functions constrained to the
// narrower capability interfaces, so misuse is a compile error rather than
// a panic or a returned error.
package uringio

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/lattice-io/uringio/internal/sys"
	"github.com/lattice-io/uringio/internal/uringlog"
)

// Timespec is a time specification for timeout operations.
type Timespec = sys.Timespec

// Ring is a live io_uring instance typed by how it is driven (M), the
// shape of its submission entries (S) and the shape of its completion
// entries (C). It owns the ring fd, the Arena backing its three mapped
// regions, and the registered-ring-fd slot, if any.
//
// Ring itself exposes only the bookkeeping surface (Fd, Features,
// entry counts, Close); pushing submissions and draining completions goes
// through a Submitter or Collector cursor obtained from the ring, matching
// the explicit-publication design spec.md's submission/completion
// protocol calls for.
type Ring[M Mode, S SQEClass, C CQEClass] struct {
	fd       int
	params   sys.Params
	features uint32
	arena    Arena
	logger   uringlog.Logger

	sqEntries uint32
	sqMask    uint32
	sqHead    *uint32
	sqTail    *uint32
	sqFlags   *uint32
	sqDropped *uint32
	sqArray   []uint32
	sqesRaw   []byte

	cqEntries  uint32
	cqMask     uint32
	cqHead     *uint32
	cqTail     *uint32
	cqFlags    *uint32
	cqOverflow *uint32
	cqesRaw    []byte

	mu             sync.Mutex
	registeredSlot int32
	registered     bool
	sqSyncedTail   uint32 // last tail value handed to io_uring_enter

	closed atomic.Bool

	mode M
	sqe  S
	cqe  C
}

// Fd returns the ring file descriptor.
func (r *Ring[M, S, C]) Fd() int { return r.fd }

// Features returns the feature flags the kernel reported back at setup.
func (r *Ring[M, S, C]) Features() uint32 { return r.features }

// HasFeature reports whether a specific IORING_FEAT_* bit is set.
func (r *Ring[M, S, C]) HasFeature(feat uint32) bool { return r.features&feat != 0 }

// SQEntries returns the number of submission queue slots.
func (r *Ring[M, S, C]) SQEntries() uint32 { return r.sqEntries }

// CQEntries returns the number of completion queue slots.
func (r *Ring[M, S, C]) CQEntries() uint32 { return r.cqEntries }

// SQCapacity returns the number of logical entries the submission queue can
// hold given its SQEClass's slots-per-entry — half of SQEntries for Sqe128,
// equal to SQEntries for Sqe64 and SqeMix.
func (r *Ring[M, S, C]) SQCapacity() uint32 {
	return r.sqEntries / r.sqe.slotsPerEntry()
}

// SQSpace reports how many logical entries currently fit in the submission
// queue without blocking.
func (r *Ring[M, S, C]) SQSpace() uint32 {
	head := atomic.LoadUint32(r.sqHead)
	tail := atomic.LoadUint32(r.sqTail)
	used := tail - head
	return r.sqEntries/r.sqe.slotsPerEntry() - used/r.sqe.slotsPerEntry()
}

// CQReady reports how many completions are waiting to be collected.
func (r *Ring[M, S, C]) CQReady() uint32 {
	head := atomic.LoadUint32(r.cqHead)
	tail := atomic.LoadUint32(r.cqTail)
	return tail - head
}

// CQOverflow reports the kernel's dropped-completion counter: completions
// the kernel could not fit on the CQ and had to hold back internally.
func (r *Ring[M, S, C]) CQOverflow() uint32 {
	if r.cqOverflow == nil {
		return 0
	}
	return atomic.LoadUint32(r.cqOverflow)
}

// Submitter returns a cursor for pushing new submission entries. Only one
// live Submitter per ring should be used at a time; the ring does not
// itself serialize concurrent Submitters.
func (r *Ring[M, S, C]) Submitter() *Submitter[M, S, C] {
	s := &Submitter[M, S, C]{ring: r, startTail: atomic.LoadUint32(r.sqTail)}
	s.tail = s.startTail
	runtime.SetFinalizer(s, submitterFinalizer[M, S, C])
	return s
}

// Collector returns a cursor for draining completion entries.
func (r *Ring[M, S, C]) Collector() *Collector[M, S, C] {
	c := &Collector[M, S, C]{ring: r, startHead: atomic.LoadUint32(r.cqHead)}
	c.head = c.startHead
	runtime.SetFinalizer(c, collectorFinalizer[M, S, C])
	return c
}

// Close releases the ring: unregisters the ring fd if registered, unmaps
// the arena, and closes the fd, in that order — the reverse of
// acquisition, matching the destructor ordering the teacher's Ring.Close
// follows.
func (r *Ring[M, S, C]) Close() error {
	if r.closed.Swap(true) {
		return nil
	}

	if r.registered {
		_ = sys.UnregisterRingFDs(r.fd, r.registeredSlot)
		r.registered = false
	}

	r.arena.Release()

	return unix.Close(r.fd)
}

func (r *Ring[M, S, C]) sqeSlot(i uint32) *sys.SQE {
	off := uintptr(i) * uintptr(sqeSlotSize)
	return (*sys.SQE)(unsafe.Pointer(&r.sqesRaw[off]))
}

func (r *Ring[M, S, C]) cqeSlotBase(i uint32) *sys.CQE {
	off := uintptr(i) * uintptr(r.cqe.cqeStride())
	return (*sys.CQE)(unsafe.Pointer(&r.cqesRaw[off]))
}

func (r *Ring[M, S, C]) cqeSlotExt(i uint32) *[16]byte {
	off := uintptr(i)*uintptr(r.cqe.cqeStride()) + 16
	return (*[16]byte)(unsafe.Pointer(&r.cqesRaw[off]))
}
