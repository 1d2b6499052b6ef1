//go:build linux

package uringio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/lattice-io/uringio/internal/sys"
	"github.com/lattice-io/uringio/internal/uringlog"
)

// SetupArgs is a fluent builder for the parameters Setup needs beyond the
// entry count: kernel-visible flags, SQPOLL tuning, a logger, and an
// optional Arena override. The zero value is ready to use.
type SetupArgs struct {
	flags        uint32
	cqEntries    uint32
	sqThreadCPU  uint32
	sqThreadIdle uint32
	logger       uringlog.Logger
	arena        Arena
	registerFD   bool
}

// SetupOption mutates a SetupArgs under construction.
type SetupOption func(*SetupArgs)

// WithSQPollCPU pins the SQPOLL kernel thread to a CPU. Only meaningful
// together with SqPollMode.
func WithSQPollCPU(cpu uint32) SetupOption {
	return func(a *SetupArgs) {
		a.flags |= sys.IORING_SETUP_SQ_AFF
		a.sqThreadCPU = cpu
	}
}

// WithSQPollIdle sets the SQPOLL kernel thread's idle timeout in
// milliseconds before it parks and starts requiring wakeups again.
func WithSQPollIdle(ms uint32) SetupOption {
	return func(a *SetupArgs) { a.sqThreadIdle = ms }
}

// WithCQSize requests a completion queue size different from the kernel's
// default (normally twice the submission queue size).
func WithCQSize(size uint32) SetupOption {
	return func(a *SetupArgs) {
		a.flags |= sys.IORING_SETUP_CQSIZE
		a.cqEntries = size
	}
}

// WithSingleIssuer declares that only one task will ever submit to this
// ring, enabling kernel-side lock elision.
func WithSingleIssuer() SetupOption {
	return func(a *SetupArgs) { a.flags |= sys.IORING_SETUP_SINGLE_ISSUER }
}

// WithDeferTaskrun defers task work to the next io_uring_enter call rather
// than running it inline; requires SINGLE_ISSUER, which this option also
// sets.
func WithDeferTaskrun() SetupOption {
	return func(a *SetupArgs) {
		a.flags |= sys.IORING_SETUP_DEFER_TASKRUN | sys.IORING_SETUP_SINGLE_ISSUER
	}
}

// WithCoopTaskrun enables cooperative task running.
func WithCoopTaskrun() SetupOption {
	return func(a *SetupArgs) { a.flags |= sys.IORING_SETUP_COOP_TASKRUN }
}

// WithHybridIOPoll enables IORING_SETUP_HYBRID_IOPOLL; requires IOPOLL,
// which IoPollMode does not set by itself: combine it with
// WithFlags(sys.IORING_SETUP_IOPOLL), or Setup rejects the combination.
func WithHybridIOPoll() SetupOption {
	return func(a *SetupArgs) { a.flags |= sys.IORING_SETUP_HYBRID_IOPOLL }
}

// WithFlags ORs arbitrary additional IORING_SETUP_* flags in.
func WithFlags(flags uint32) SetupOption {
	return func(a *SetupArgs) { a.flags |= flags }
}

// WithLogger overrides the structured logger Setup and the resulting Ring
// use; the default is uringlog.Default().
func WithLogger(l uringlog.Logger) SetupOption {
	return func(a *SetupArgs) { a.logger = l }
}

// WithArena overrides the Arena implementation; the default is
// *FileBackedArena. Passing an Arena implementing PreMappingArena (such as
// *AnonymousArena) switches Setup into the reserve-before-setup path.
func WithArena(arena Arena) SetupOption {
	return func(a *SetupArgs) { a.arena = arena }
}

// WithRegisteredRingFD additionally installs the ring's fd into the
// kernel's per-task registered-fd table immediately after setup, so the
// ring starts out eligible for IORING_ENTER_REGISTERED_RING.
func WithRegisteredRingFD() SetupOption {
	return func(a *SetupArgs) { a.registerFD = true }
}

// AssertPreconditions, when true (the default), makes Setup validate the
// Mode/SQEClass/CQEClass/flags combination against the documented
// precondition rules before issuing io_uring_setup, returning
// ErrPrecondition on violation instead of letting the kernel reject it.
// Tests that intentionally probe kernel-level rejection can set this to
// false.
var AssertPreconditions = true

// Setup creates a new ring typed by the given Mode, SQEClass and CQEClass.
// entries is the minimum number of submission queue slots; the kernel
// rounds it up to a power of two.
func Setup[M Mode, S SQEClass, C CQEClass](entries uint32, opts ...SetupOption) (*Ring[M, S, C], error) {
	var mode M
	var sqe S
	var cqe C

	args := SetupArgs{logger: uringlog.Default()}
	for _, opt := range opts {
		opt(&args)
	}

	if entries == 0 {
		return nil, fmt.Errorf("%w: entries must be > 0", ErrPrecondition)
	}

	params := sys.Params{
		SQEntries:    entries,
		Flags:        mode.setupFlags() | sqe.setupFlags() | cqe.cqeSetupFlags() | args.flags,
		SQThreadCPU:  args.sqThreadCPU,
		SQThreadIdle: args.sqThreadIdle,
	}
	if args.cqEntries != 0 {
		params.CQEntries = args.cqEntries
	}

	if AssertPreconditions {
		if err := checkPreconditions(params.Flags); err != nil {
			return nil, err
		}
	}

	arena := args.arena
	if arena == nil {
		arena = &FileBackedArena{}
	}

	if pre, ok := arena.(PreMappingArena); ok {
		if err := pre.Reserve(&params, cqe.cqeStride()); err != nil {
			return nil, err
		}
	}

	fd, err := sys.Setup(entries, &params)
	if err != nil {
		arena.Release()
		return nil, err
	}

	if AssertPreconditions && params.Features&sys.IORING_FEAT_NODROP == 0 {
		arena.Release()
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: kernel did not report IORING_FEAT_NODROP", ErrFeatureMissing)
	}

	sqRing, cqRing, sqesRaw, err := arena.Map(fd, &params, cqe.cqeStride())
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	r := &Ring[M, S, C]{
		fd:       fd,
		params:   params,
		features: params.Features,
		arena:    arena,
		logger:   args.logger,
		mode:     mode,
		sqe:      sqe,
		cqe:      cqe,
		sqesRaw:  sqesRaw,
		cqesRaw:  cqRing[params.CQOff.CQEs:],
	}

	r.sqEntries = *(*uint32)(unsafe.Pointer(&sqRing[params.SQOff.RingEntries]))
	r.sqMask = *(*uint32)(unsafe.Pointer(&sqRing[params.SQOff.RingMask]))
	r.sqHead = (*uint32)(unsafe.Pointer(&sqRing[params.SQOff.Head]))
	r.sqTail = (*uint32)(unsafe.Pointer(&sqRing[params.SQOff.Tail]))
	r.sqFlags = (*uint32)(unsafe.Pointer(&sqRing[params.SQOff.Flags]))
	r.sqDropped = (*uint32)(unsafe.Pointer(&sqRing[params.SQOff.Dropped]))
	sqArrayPtr := unsafe.Pointer(&sqRing[params.SQOff.Array])
	r.sqArray = unsafe.Slice((*uint32)(sqArrayPtr), r.sqEntries)

	r.cqEntries = *(*uint32)(unsafe.Pointer(&cqRing[params.CQOff.RingEntries]))
	r.cqMask = *(*uint32)(unsafe.Pointer(&cqRing[params.CQOff.RingMask]))
	r.cqHead = (*uint32)(unsafe.Pointer(&cqRing[params.CQOff.Head]))
	r.cqTail = (*uint32)(unsafe.Pointer(&cqRing[params.CQOff.Tail]))
	r.cqFlags = (*uint32)(unsafe.Pointer(&cqRing[params.CQOff.Flags]))
	r.cqOverflow = (*uint32)(unsafe.Pointer(&cqRing[params.CQOff.Overflow]))

	if args.registerFD {
		slot, err := sys.RegisterRingFDs(fd)
		if err != nil {
			r.logger.Warn("registering ring fd failed", "error", err)
		} else {
			r.registered = true
			r.registeredSlot = slot
		}
	}

	r.logger.Info("ring created", "fd", fd, "sq_entries", r.sqEntries, "cq_entries", r.cqEntries, "features", r.features)

	return r, nil
}

// checkPreconditions validates flag combinations that the kernel would
// otherwise reject opaquely, giving callers an actionable error instead.
func checkPreconditions(flags uint32) error {
	if flags&sys.IORING_SETUP_HYBRID_IOPOLL != 0 && flags&sys.IORING_SETUP_IOPOLL == 0 {
		return fmt.Errorf("%w: IORING_SETUP_HYBRID_IOPOLL requires IORING_SETUP_IOPOLL", ErrPrecondition)
	}
	if flags&sys.IORING_SETUP_COOP_TASKRUN != 0 && flags&sys.IORING_SETUP_IOPOLL == 0 {
		return fmt.Errorf("%w: IORING_SETUP_COOP_TASKRUN requires IORING_SETUP_IOPOLL", ErrPrecondition)
	}
	if flags&sys.IORING_SETUP_TASKRUN_FLAG != 0 && flags&sys.IORING_SETUP_IOPOLL == 0 {
		return fmt.Errorf("%w: IORING_SETUP_TASKRUN_FLAG requires IORING_SETUP_IOPOLL", ErrPrecondition)
	}
	if flags&sys.IORING_SETUP_DEFER_TASKRUN != 0 && flags&sys.IORING_SETUP_IOPOLL == 0 {
		return fmt.Errorf("%w: IORING_SETUP_DEFER_TASKRUN requires IORING_SETUP_IOPOLL", ErrPrecondition)
	}
	if flags&sys.IORING_SETUP_DEFER_TASKRUN != 0 && flags&sys.IORING_SETUP_SINGLE_ISSUER == 0 {
		return fmt.Errorf("%w: IORING_SETUP_DEFER_TASKRUN requires IORING_SETUP_SINGLE_ISSUER", ErrPrecondition)
	}
	if flags&sys.IORING_SETUP_SQ_AFF != 0 && flags&sys.IORING_SETUP_SQPOLL == 0 {
		return fmt.Errorf("%w: IORING_SETUP_SQ_AFF requires IORING_SETUP_SQPOLL", ErrPrecondition)
	}
	if flags&sys.IORING_SETUP_REGISTERED_FD_ONLY != 0 && flags&sys.IORING_SETUP_NO_MMAP == 0 {
		return fmt.Errorf("%w: IORING_SETUP_REGISTERED_FD_ONLY requires IORING_SETUP_NO_MMAP", ErrPrecondition)
	}
	return nil
}
