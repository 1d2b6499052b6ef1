//go:build linux

package uringio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-io/uringio/internal/sys"
)

func TestProbeSupportsNop(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	p, err := r.Probe()
	require.NoError(t, err)

	assert.True(t, p.SupportsOp(sys.IORING_OP_NOP))
	assert.Equal(t, r.Features(), p.Features())
}

func TestProbeRejectsUnknownOp(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	p, err := r.Probe()
	require.NoError(t, err)

	assert.False(t, p.SupportsOp(sys.Op(255)))
}
