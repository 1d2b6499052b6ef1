//go:build linux

package uringio

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-io/uringio/ops"
)

func TestNopRoundTrip(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	s := r.Submitter()
	_, err = s.Push(ops.Nop(0x42))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var completion Completion
	var found bool
	for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); {
		c := r.Collector()
		if _, ferr := c.Flush(1); ferr != nil {
			c.Close()
			require.NoError(t, ferr)
		}
		if next, ok := c.Next(); ok {
			completion, found = next, true
			require.NoError(t, c.Close())
			break
		}
		require.NoError(t, c.Close())
	}

	require.True(t, found, "expected exactly one completion for the pushed no-op")
	assert.Equal(t, uint64(0x42), completion.UserData)
	assert.Equal(t, int32(0), completion.Res)
}

func TestCollectorAdvancesHeadOnClose(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	s := r.Submitter()
	for i := 0; i < 3; i++ {
		_, err := s.Push(ops.Nop(uint64(i)))
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	c := r.Collector()
	_, err = c.Flush(3)
	require.NoError(t, err)

	startHead := c.startHead
	n := 0
	for {
		_, ok := c.Next()
		if !ok {
			break
		}
		n++
	}
	require.NoError(t, c.Close())

	assert.Equal(t, startHead+uint32(n), r.cqHeadValueForTest())
}

func (r *Ring[M, S, C]) cqHeadValueForTest() uint32 {
	return atomic.LoadUint32(r.cqHead)
}
