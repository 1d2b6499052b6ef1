//go:build linux

package uringio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRingFDIdempotence(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RegisterRingFD())

	err = r.RegisterRingFD()
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, ok := r.RegisteredRingSlot()
	assert.True(t, ok)
}

func TestRegisteredRingSetsEnterFlag(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.RegisterRingFD())

	assert.True(t, r.registered)
}

func TestUnregisterRingFDOnClose(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8)
	require.NoError(t, err)
	require.NoError(t, r.RegisterRingFD())

	require.NoError(t, r.Close())
	assert.False(t, r.registered)
}
