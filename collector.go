//go:build linux

package uringio

import (
	"runtime"
	"sync/atomic"

	"github.com/lattice-io/uringio/internal/sys"
)

// Completion is one drained completion entry's base fields: every CQEClass
// carries these regardless of physical stride.
type Completion struct {
	UserData uint64
	Res      int32
	Flags    uint32

	index uint32 // slot index, used by Ext to find the extension words
}

// HasExt32 reports whether this completion's IORING_CQE_F_EXT32 bit is set
// — meaningful only on a CqeMix ring, where it varies per entry.
func (c Completion) HasExt32() bool { return c.Flags&sys.IORING_CQE_F_EXT32 != 0 }

// Err converts Res into a Go error via ResultError.
func (c Completion) Err() error { return ResultError(c.Res) }

// Collector is a cursor over a ring's completion queue: it reads entries
// starting at the queue's last-seen head without disturbing the shared
// head counter, then on Close publishes how many it consumed by advancing
// that counter — the mirror image of Submitter, grounded on the same
// peek-then-advance shape as the teacher's PeekCQE/SeenCQE pair and the
// reference implementation's Drop-publishes-head collector contract.
//
// Like Submitter, a forgotten Close is backstopped by a finalizer that
// force-publishes and logs a warning.
type Collector[M Mode, S SQEClass, C CQEClass] struct {
	ring      *Ring[M, S, C]
	startHead uint32
	head      uint32
	closed    bool
}

// Ready reports how many completions remain unread through this cursor.
func (c *Collector[M, S, C]) Ready() uint32 {
	tail := atomic.LoadUint32(c.ring.cqTail)
	return tail - c.head
}

// Next returns the next completion, if any, advancing the cursor's local
// read position (but not yet the shared head — that happens on Close).
func (c *Collector[M, S, C]) Next() (Completion, bool) {
	tail := atomic.LoadUint32(c.ring.cqTail)
	if c.head == tail {
		return Completion{}, false
	}
	idx := c.head & c.ring.cqMask
	base := c.ring.cqeSlotBase(idx)
	out := Completion{UserData: base.UserData, Res: base.Res, Flags: base.Flags, index: idx}
	c.head++
	return out, true
}

// Ext returns the 16-byte extension words of a completion obtained from
// this cursor. Only callable against rings whose CQEClass is ExtCapable
// (Cqe32 or CqeMix) — the bound below makes calling it on a Cqe16 ring a
// compile error. Callers must check Completion.HasExt32 themselves on a
// CqeMix ring before trusting the contents.
func Ext[M Mode, S SQEClass, C ExtCapable](c *Collector[M, S, C], entry Completion) [16]byte {
	return *c.ring.cqeSlotExt(entry.index)
}

// Close publishes how many completions this Collector consumed by
// advancing the shared CQ head with atomic release-store semantics,
// returning those slots to the kernel.
func (c *Collector[M, S, C]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	atomic.StoreUint32(c.ring.cqHead, c.head)
	runtime.SetFinalizer(c, nil)
	return nil
}

func collectorFinalizer[M Mode, S SQEClass, C CQEClass](c *Collector[M, S, C]) {
	if c.closed {
		return
	}
	c.ring.logger.Warn("collector finalized without Close; force-publishing", "consumed", c.head-c.startHead)
	atomic.StoreUint32(c.ring.cqHead, c.head)
}
