//go:build linux

package uringio

import "github.com/lattice-io/uringio/internal/sys"

// Enter issues io_uring_enter directly: toSubmit entries are handed to the
// kernel and the call blocks until at least minComplete completions are
// available (when flags includes IORING_ENTER_GETEVENTS). Most callers
// should prefer Collector.Flush, which composes the mode's own wakeup
// policy with this call; Enter is exposed for callers that need to pass
// IORING_ENTER_* flags Flush doesn't set itself. When the ring fd is
// registered, Enter addresses the ring by its registered slot and adds
// IORING_ENTER_REGISTERED_RING itself, for Flush's calls as well.
func (r *Ring[M, S, C]) Enter(toSubmit, minComplete, flags uint32) (int, error) {
	if r.closed.Load() {
		return 0, ErrRingClosed
	}
	fd := r.fd
	if r.registered {
		flags |= sys.IORING_ENTER_REGISTERED_RING
		fd = int(r.registeredSlot)
	}
	return sys.Enter(fd, toSubmit, minComplete, flags, nil)
}
