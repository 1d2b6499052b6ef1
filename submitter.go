//go:build linux

package uringio

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/lattice-io/uringio/internal/sys"
)

// Submitter is a cursor over a ring's submission queue: it writes new
// entries into the slots starting at the queue's current tail and, on
// Close, publishes them by advancing the shared tail counter with release
// semantics. This is the explicit-publication replacement for the
// teacher's direct Ring.GetSQE/Prep*/Submit surface, modeled on the
// peek-then-advance shape of cloudwego-gopkg's PeekSQE/AdvanceSQ and on the
// reference implementation's Drop-publishes-tail submitter contract.
//
// A Submitter must be closed exactly once. Forgetting to close one leaks
// the entries it wrote — they stay invisible to the kernel — so a
// finalizer backstop force-publishes and logs a warning if Close was never
// called.
type Submitter[M Mode, S SQEClass, C CQEClass] struct {
	ring      *Ring[M, S, C]
	startTail uint32
	tail      uint32
	closed    bool
}

// Pending returns the number of logical entries written but not yet
// published.
func (s *Submitter[M, S, C]) Pending() uint32 {
	return (s.tail - s.startTail) / s.ring.sqe.slotsPerEntry()
}

// Push writes sqe into the next free slot and returns its user-data tag on
// success. On a Sqe128 ring the entry spans two slots: sqe fills the first
// and the second is zeroed. It fails with ErrSQFull if the queue has no
// room for one more entry of the ring's SQEClass.
func (s *Submitter[M, S, C]) Push(sqe sys.SQE) (uint64, error) {
	slots := s.ring.sqe.slotsPerEntry()
	if err := s.reserve(slots); err != nil {
		return 0, err
	}
	idx := s.tail & s.ring.sqMask
	*s.ring.sqeSlot(idx) = sqe
	s.installArraySlot(idx)
	if slots == 2 {
		*s.ring.sqeSlot(idx + 1) = sys.SQE{}
		s.installArraySlot(idx + 1)
	}
	s.tail += slots
	runtime.KeepAlive(s)
	return sqe.UserData, nil
}

// PushWide writes a 128-byte logical entry spanning two consecutive slots:
// sqe occupies the first 64 bytes, ext the second. It is only callable
// against rings whose SQEClass is WideCapable (Sqe128 or SqeMix) — the
// type parameter bound below is what makes calling it on a Sqe64 ring a
// compile error rather than a runtime one.
//
// For a SqeMix ring, a push that would leave fewer than two contiguous
// slots before the array wraps is padded with a one-slot no-op flagged
// IOSQE_CQE_SKIP_SUCCESS, so the wide entry always starts at slot 0.
func PushWide[M Mode, S WideCapable, C CQEClass](s *Submitter[M, S, C], sqe sys.SQE, ext [64]byte) (uint64, error) {
	idx := s.tail & s.ring.sqMask
	needsPad := idx == s.ring.sqEntries-1

	slots := uint32(2)
	if needsPad {
		slots = 3
	}
	if err := s.reserve(slots); err != nil {
		return 0, err
	}

	if needsPad {
		pad := sys.SQE{Opcode: uint8(sys.IORING_OP_NOP), Flags: sys.IOSQE_CQE_SKIP_SUCCESS}
		*s.ring.sqeSlot(idx) = pad
		s.installArraySlot(idx)
		s.tail++
		idx = s.tail & s.ring.sqMask
	}

	*s.ring.sqeSlot(idx) = sqe
	s.installArraySlot(idx)
	*s.ring.sqeSlot(idx + 1) = *(*sys.SQE)(unsafe.Pointer(&ext))
	s.installArraySlot(idx + 1)
	s.tail += 2
	runtime.KeepAlive(s)
	return sqe.UserData, nil
}

// reserve checks there is room for n more physical slots without
// committing them.
func (s *Submitter[M, S, C]) reserve(slots uint32) error {
	head := atomic.LoadUint32(s.ring.sqHead)
	if s.tail+slots-head > s.ring.sqEntries {
		return ErrSQFull
	}
	return nil
}

func (s *Submitter[M, S, C]) installArraySlot(idx uint32) {
	if s.ring.sqArray != nil {
		s.ring.sqArray[idx] = idx
	}
}

// Close publishes every entry written through this Submitter by advancing
// the shared SQ tail with atomic release-store semantics, making them
// visible to the kernel (and, under SqPollMode, to the poller thread once
// it next checks the tail or is woken — see Collector.Flush).
func (s *Submitter[M, S, C]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	atomic.StoreUint32(s.ring.sqTail, s.tail)
	runtime.SetFinalizer(s, nil)
	return nil
}

func submitterFinalizer[M Mode, S SQEClass, C CQEClass](s *Submitter[M, S, C]) {
	if s.closed {
		return
	}
	s.ring.logger.Warn("submitter finalized without Close; force-publishing", "pending", s.Pending())
	atomic.StoreUint32(s.ring.sqTail, s.tail)
}
