//go:build linux

package uringio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-io/uringio/internal/sys"
)

func TestAnonymousArenaRejectsOversizedRegion(t *testing.T) {
	a := &AnonymousArena{}
	params := sys.Params{SQEntries: hugePageSize, CQEntries: hugePageSize}

	err := a.Reserve(&params, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds huge page size")
}

func TestAnonymousArenaReserveSetsNoMmapFlag(t *testing.T) {
	a := &AnonymousArena{}
	params := sys.Params{SQEntries: 8, CQEntries: 16}

	if err := a.Reserve(&params, 16); err != nil {
		t.Skipf("anonymous mmap unavailable in this sandbox: %v", err)
	}
	defer a.Release()

	assert.NotZero(t, params.Flags&sys.IORING_SETUP_NO_MMAP)
	assert.NotZero(t, params.SQOff.UserAddr)
	assert.NotZero(t, params.CQOff.UserAddr)
}

func TestFileBackedArenaGroundedInRingSetup(t *testing.T) {
	skipIfNoIOURing(t)

	r, err := Setup[IoPollMode, Sqe64, Cqe16](8, WithArena(&FileBackedArena{}))
	require.NoError(t, err)
	defer r.Close()

	assert.NotZero(t, r.SQEntries())
}
