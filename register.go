//go:build linux

package uringio

import (
	"golang.org/x/sys/unix"

	"github.com/lattice-io/uringio/internal/sys"
)

// RegisterRingFD installs the ring's own fd into the kernel's per-task
// registered-fd table, letting subsequent Enter calls pass
// IORING_ENTER_REGISTERED_RING and avoid an fd-table lookup on every call.
// Idempotent: calling it again on an already-registered ring is a no-op
// that returns ErrAlreadyRegistered without issuing a syscall.
func (r *Ring[M, S, C]) RegisterRingFD() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registered {
		return ErrAlreadyRegistered
	}
	slot, err := sys.RegisterRingFDs(r.fd)
	if err != nil {
		return err
	}
	r.registered = true
	r.registeredSlot = slot
	return nil
}

// UnregisterRingFD reverses RegisterRingFD. A no-op if the ring's fd was
// never registered.
func (r *Ring[M, S, C]) UnregisterRingFD() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.registered {
		return nil
	}
	if err := sys.UnregisterRingFDs(r.fd, r.registeredSlot); err != nil {
		return err
	}
	r.registered = false
	return nil
}

// RegisteredRingSlot returns the registered-fd slot and whether the ring's
// fd is currently registered.
func (r *Ring[M, S, C]) RegisteredRingSlot() (slot int32, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registeredSlot, r.registered
}

// RegisterEventfd registers an eventfd for completion notification,
// letting an external poller (epoll, an event loop) learn about new
// completions without polling the ring directly.
func (r *Ring[M, S, C]) RegisterEventfd(eventfd int) error {
	return sys.RegisterEventfd(r.fd, eventfd)
}

// UnregisterEventfd removes the registered eventfd.
func (r *Ring[M, S, C]) UnregisterEventfd() error {
	return sys.UnregisterEventfd(r.fd)
}

// RegisterBuffers registers fixed buffers for use with *Fixed read/write
// operations, letting the kernel skip the per-call page pinning it would
// otherwise do for every I/O.
func (r *Ring[M, S, C]) RegisterBuffers(bufs [][]byte) error {
	if len(bufs) == 0 {
		return unix.EINVAL
	}
	iovecs := make([]unix.Iovec, len(bufs))
	for i, buf := range bufs {
		if len(buf) > 0 {
			iovecs[i].Base = &buf[0]
			iovecs[i].SetLen(len(buf))
		}
	}
	return sys.RegisterBuffers(r.fd, iovecs)
}

// UnregisterBuffers removes registered buffers.
func (r *Ring[M, S, C]) UnregisterBuffers() error {
	return sys.UnregisterBuffers(r.fd)
}

// RegisterFiles registers fixed file descriptors, letting operations refer
// to them by index instead of by raw fd.
func (r *Ring[M, S, C]) RegisterFiles(fds []int) error {
	if len(fds) == 0 {
		return unix.EINVAL
	}
	fds32 := make([]int32, len(fds))
	for i, fd := range fds {
		fds32[i] = int32(fd)
	}
	return sys.RegisterFiles(r.fd, fds32)
}

// UnregisterFiles removes registered files.
func (r *Ring[M, S, C]) UnregisterFiles() error {
	return sys.UnregisterFiles(r.fd)
}
