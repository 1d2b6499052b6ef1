package ops

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/lattice-io/uringio/internal/sys"
)

func TestLayoutParity(t *testing.T) {
	assert.Equal(t, 64, int(unsafe.Sizeof(sys.SQE{})))
	assert.Equal(t, 64, sqe64Size)
}

func TestNopCarriesUserData(t *testing.T) {
	sqe := Nop(0x42)
	assert.Equal(t, uint8(sys.IORING_OP_NOP), sqe.Opcode)
	assert.Equal(t, uint64(0x42), sqe.UserData)
}

func TestReadSetsAddrLenOffset(t *testing.T) {
	buf := make([]byte, 16)
	sqe := Read(PlainFd(3), buf, 128, 0x1)

	assert.Equal(t, uint8(sys.IORING_OP_READ), sqe.Opcode)
	assert.Equal(t, int32(3), sqe.Fd)
	assert.Equal(t, uint32(16), sqe.Len)
	assert.Equal(t, uint64(128), sqe.Off)
	assert.NotZero(t, sqe.Addr)
}

func TestFixedFdSetsFlag(t *testing.T) {
	sqe := Close(FixedFd(2), 0x9)
	assert.Equal(t, int32(2), sqe.Fd)
	assert.NotZero(t, sqe.Flags&sys.IOSQE_FIXED_FILE)
}

func TestWriteFixedUsesBufIndex(t *testing.T) {
	buf := make([]byte, 8)
	sqe := WriteFixed(PlainFd(1), buf, 0, 5, 0x2)
	assert.Equal(t, uint8(sys.IORING_OP_WRITE_FIXED), sqe.Opcode)
	assert.Equal(t, uint16(5), sqe.BufIndex)
}

func TestFsyncDataSyncFlag(t *testing.T) {
	sqe := Fsync(PlainFd(4), FsyncDataSync, 0x3)
	assert.Equal(t, sys.IORING_FSYNC_DATASYNC, sqe.OpFlags)
}

func TestTimeoutAddressesTimespec(t *testing.T) {
	ts := &sys.Timespec{Sec: 1}
	sqe := Timeout(ts, 0, 0x4)
	assert.Equal(t, uint8(sys.IORING_OP_TIMEOUT), sqe.Opcode)
	assert.Equal(t, uint64(uintptr(unsafe.Pointer(ts))), sqe.Addr)
}
