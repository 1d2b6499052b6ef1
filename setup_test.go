//go:build linux

package uringio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/lattice-io/uringio/internal/sys"
)

// skipIfNoIOURing skips the calling test when the kernel has no io_uring
// support or this process is blocked from using it, matching the
// teacher's skipIfNoIOURing helper.
func skipIfNoIOURing(t *testing.T) {
	t.Helper()
	r, err := Setup[IoPollMode, Sqe64, Cqe16](4)
	if err != nil {
		if err == unix.ENOSYS {
			t.Skip("io_uring not supported on this kernel")
		}
		if err == unix.EPERM {
			t.Skip("io_uring blocked by seccomp or permissions")
		}
		t.Skipf("io_uring unavailable: %v", err)
	}
	r.Close()
}

func TestSetupRoundsEntriesToPowerOfTwo(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](3)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, r.SQEntries()&(r.SQEntries()-1), uint32(0), "SQEntries must be a power of two")
	assert.Equal(t, r.CQEntries()&(r.CQEntries()-1), uint32(0), "CQEntries must be a power of two")
}

func TestSetupZeroEntriesRejected(t *testing.T) {
	_, err := Setup[IoPollMode, Sqe64, Cqe16](0)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupRejectsHybridIOPollWithoutIOPoll(t *testing.T) {
	_, err := Setup[IoPollMode, Sqe64, Cqe16](8, WithHybridIOPoll())
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupRejectsDeferTaskrunWithoutSingleIssuer(t *testing.T) {
	// DEFER_TASKRUN combined with SINGLE_ISSUER but not IOPOLL still
	// violates the DEFER_TASKRUN->IOPOLL precondition, so this must
	// isolate SINGLE_ISSUER's own check by also setting IOPOLL.
	err := checkPreconditions(sys.IORING_SETUP_DEFER_TASKRUN | sys.IORING_SETUP_IOPOLL)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupRejectsCoopTaskrunWithoutIOPoll(t *testing.T) {
	err := checkPreconditions(sys.IORING_SETUP_COOP_TASKRUN)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupRejectsTaskrunFlagWithoutIOPoll(t *testing.T) {
	err := checkPreconditions(sys.IORING_SETUP_TASKRUN_FLAG)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupRejectsDeferTaskrunWithoutIOPoll(t *testing.T) {
	err := checkPreconditions(sys.IORING_SETUP_DEFER_TASKRUN | sys.IORING_SETUP_SINGLE_ISSUER)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupRejectsRegisteredFdOnlyWithoutNoMmap(t *testing.T) {
	err := checkPreconditions(sys.IORING_SETUP_REGISTERED_FD_ONLY)
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestSetupClose(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close(), "Close must be idempotent")
}

func TestSetupFeatures(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	assert.NotZero(t, r.Features())
	assert.True(t, r.HasFeature(r.Features()))
}

func TestSqeCqeEntrySizes(t *testing.T) {
	var sqe64 Sqe64
	var sqe128 Sqe128
	var sqeMix SqeMix
	var cqe16 Cqe16
	var cqe32 Cqe32
	var cqeMix CqeMix

	assert.Equal(t, uint32(1), sqe64.slotsPerEntry())
	assert.Equal(t, uint32(2), sqe128.slotsPerEntry())
	assert.Equal(t, uint32(1), sqeMix.slotsPerEntry())

	assert.Equal(t, uint32(16), cqe16.cqeSize())
	assert.Equal(t, uint32(32), cqe32.cqeSize())
	assert.Equal(t, uint32(16), cqeMix.cqeSize())
}
