package uringio

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lattice-io/uringio/internal/sys"
)

func TestIoPollModeAlwaysWakesUp(t *testing.T) {
	var m IoPollMode
	var flags uint32
	assert.True(t, m.needsEnterWakeup(&flags))
	flags = sys.IORING_SQ_NEED_WAKEUP
	assert.True(t, m.needsEnterWakeup(&flags))
}

func TestSqPollModeChecksNeedWakeupFlag(t *testing.T) {
	var m SqPollMode
	var flags uint32

	assert.False(t, m.needsEnterWakeup(&flags))

	atomic.StoreUint32(&flags, sys.IORING_SQ_NEED_WAKEUP)
	assert.True(t, m.needsEnterWakeup(&flags))
}

func TestModeSetupFlags(t *testing.T) {
	assert.Equal(t, uint32(0), IoPollMode{}.setupFlags())
	assert.Equal(t, sys.IORING_SETUP_SQPOLL, SqPollMode{}.setupFlags())
}
