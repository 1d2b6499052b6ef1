//go:build linux

package uringio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushReturnsZeroWithNothingPending(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	c := r.Collector()
	defer c.Close()

	n, err := c.Flush(0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSqPollFlushWakesUpWhenFlagged(t *testing.T) {
	r, err := Setup[SqPollMode, Sqe64, Cqe16](8, WithSQPollIdle(1))
	if err != nil {
		t.Skipf("SQPOLL unavailable: %v", err)
	}
	defer r.Close()

	// Force the flag by hand rather than waiting on the real kernel
	// thread's idle timeout, keeping this test deterministic.
	*r.sqFlags |= 1 // IORING_SQ_NEED_WAKEUP

	c := r.Collector()
	defer c.Close()
	_, err = c.Flush(0)
	require.NoError(t, err)
}
