package uringio

import "errors"

var (
	// ErrSQFull is returned when the submission queue has no free slots
	// for the requested push (one slot for Push, two for Push on a Sqe128
	// ring and for PushWide, three for a PushWide that needs padding).
	ErrSQFull = errors.New("uringio: submission queue full")

	// ErrCQOverflow names the condition where the kernel recorded
	// completions it could not fit on the completion queue. No function in
	// this package returns it; the kernel's count is read through
	// Ring.CQOverflow.
	ErrCQOverflow = errors.New("uringio: completion queue overflowed")

	// ErrRingClosed is returned by Ring.Enter and Collector.Flush when they
	// are called after Ring.Close. Other methods do not check for it.
	ErrRingClosed = errors.New("uringio: ring is closed")

	// ErrFeatureMissing is returned by Setup, when AssertPreconditions is
	// true, if the kernel did not report IORING_FEAT_NODROP back.
	ErrFeatureMissing = errors.New("uringio: required kernel feature not available")

	// ErrPrecondition is returned by Setup when the requested combination
	// of Mode/SQEClass/CQEClass/flags violates one of the documented
	// precondition rules (e.g. HYBRID_IOPOLL without IOPOLL).
	ErrPrecondition = errors.New("uringio: invalid setup precondition")

	// ErrAlreadyRegistered is returned by RegisterRingFD when the ring's fd
	// is already installed in the kernel's registered-fd table.
	ErrAlreadyRegistered = errors.New("uringio: ring fd already registered")
)

// ResultError converts a raw CQE result word into an error: negative values
// are negated errno codes per the io_uring completion convention, and
// non-negative values (bytes transferred, counts, etc.) are not errors.
func ResultError(res int32) error {
	if res >= 0 {
		return nil
	}
	return errnoError(-res)
}
