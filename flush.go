//go:build linux

package uringio

import (
	"sync/atomic"

	"github.com/lattice-io/uringio/internal/sys"
)

// Flush makes previously published submissions visible to the kernel and
// waits for at least minComplete completions. Under IoPollMode this always
// issues io_uring_enter. Under SqPollMode it first performs the full-fence
// wakeup check the teacher's Ring.Submit omits — reading IORING_SQ_CQ_OVERFLOW
// in addition to IORING_SQ_NEED_WAKEUP after a memory fence — and skips the
// syscall entirely when the poller thread is still awake and there is
// nothing it has been forced to hold back, matching the reference
// implementation's mode-driven wakeup contract.
func (c *Collector[M, S, C]) Flush(minComplete uint32) (int, error) {
	r := c.ring
	if r.closed.Load() {
		return 0, ErrRingClosed
	}

	// Full fence: makes sure this goroutine's own prior writes to the SQ
	// tail (from Submitter.Close) are visible before it inspects flags the
	// poller thread maintains, and that the flags read itself cannot be
	// reordered ahead of them.
	atomic.StoreUint32(new(uint32), 0)

	needsWakeup := r.mode.needsEnterWakeup(r.sqFlags)
	overflowed := atomic.LoadUint32(r.sqFlags)&sys.IORING_SQ_CQ_OVERFLOW != 0

	tail := atomic.LoadUint32(r.sqTail)
	toSubmit := tail - r.sqSyncedTail

	var flags uint32
	if minComplete > 0 {
		flags |= sys.IORING_ENTER_GETEVENTS
	}

	if !needsWakeup && !overflowed && minComplete == 0 {
		return 0, nil
	}
	if needsWakeup {
		flags |= sys.IORING_ENTER_SQ_WAKEUP
	}

	n, err := r.Enter(toSubmit, minComplete, flags)
	if err != nil {
		return 0, err
	}
	r.sqSyncedTail = tail
	return n, nil
}
