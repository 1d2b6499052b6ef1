package uringio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutParity(t *testing.T) {
	assert.Equal(t, 64, sqeSlotSize)
	assert.Equal(t, 16, cqe16Size)
	assert.Equal(t, 32, cqe32Size)
}

func TestCQEClassSetupFlags(t *testing.T) {
	assert.Equal(t, uint32(0), Cqe16{}.cqeSetupFlags())
	assert.NotZero(t, Cqe32{}.cqeSetupFlags())
	assert.Equal(t, Cqe32{}.cqeSetupFlags(), CqeMix{}.cqeSetupFlags())
}

func TestCQEClassStride(t *testing.T) {
	assert.Equal(t, uint32(16), Cqe16{}.cqeStride())
	assert.Equal(t, uint32(32), Cqe32{}.cqeStride())
	assert.Equal(t, uint32(32), CqeMix{}.cqeStride(), "CqeMix is 32-byte stride underneath despite a 16-byte logical cqeSize")
}
