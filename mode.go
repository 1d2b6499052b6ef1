package uringio

import (
	"sync/atomic"

	"github.com/lattice-io/uringio/internal/sys"
)

// Mode is a compile-time marker selecting how a ring is driven: by the
// calling goroutine issuing io_uring_enter directly (IoPollMode), or by a
// kernel-side poller thread that the caller must occasionally wake
// (SqPollMode). It carries no data; only its type identity matters.
//
// Mode is sealed — the only implementations are IoPollMode and SqPollMode,
// both declared in this package. External code selects a mode by naming one
// of these types as a Ring type parameter; it never implements Mode itself.
type Mode interface {
	setupFlags() uint32
	// needsEnterWakeup reports whether Collector.Flush must trap into the
	// kernel via io_uring_enter to make forward progress, given the current
	// SQ flags word. IoPollMode always answers true (it has no poller
	// thread to wake); SqPollMode inspects IORING_SQ_NEED_WAKEUP.
	needsEnterWakeup(sqFlags *uint32) bool
	sealedMode()
}

// IoPollMode drives the ring from the calling goroutine: every Flush issues
// an io_uring_enter syscall directly. This is the default, portable mode and
// matches the teacher library's only supported mode of operation.
type IoPollMode struct{}

func (IoPollMode) setupFlags() uint32 { return 0 }

func (IoPollMode) needsEnterWakeup(*uint32) bool { return true }

func (IoPollMode) sealedMode() {}

// SqPollMode drives the ring via IORING_SETUP_SQPOLL: a kernel thread polls
// the submission queue independently, so Flush only needs to trap into the
// kernel when that thread has flagged IORING_SQ_NEED_WAKEUP in the shared SQ
// flags word — otherwise newly published SQEs are picked up without a
// syscall at all.
type SqPollMode struct{}

func (SqPollMode) setupFlags() uint32 { return sys.IORING_SETUP_SQPOLL }

func (SqPollMode) needsEnterWakeup(sqFlags *uint32) bool {
	return atomic.LoadUint32(sqFlags)&sys.IORING_SQ_NEED_WAKEUP != 0
}

func (SqPollMode) sealedMode() {}

var (
	_ Mode = IoPollMode{}
	_ Mode = SqPollMode{}
)
