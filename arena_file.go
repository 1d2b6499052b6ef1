//go:build linux

package uringio

import (
	"golang.org/x/sys/unix"

	"github.com/lattice-io/uringio/internal/sys"
)

// FileBackedArena maps the SQ ring, CQ ring, and SQE array against the
// io_uring fd itself, the only mapping strategy the real kernel supports
// outside of IORING_SETUP_NO_MMAP. Grounded on the teacher's
// Ring.mapRings: when the kernel reports IORING_FEAT_SINGLE_MMAP, the SQ
// and CQ rings are coalesced into one mapping sized to the larger of the
// two; otherwise they are mapped separately.
type FileBackedArena struct {
	sq   mmapRegion
	cq   mmapRegion
	sqes mmapRegion

	singleMmap bool
}

var _ Arena = (*FileBackedArena)(nil)

// Map implements Arena.
func (a *FileBackedArena) Map(fd int, params *sys.Params, cqeStride uint32) (sqRing, cqRing, sqes []byte, err error) {
	sqRingSize := params.SQOff.Array + params.SQEntries*4
	cqRingSize := params.CQOff.CQEs + params.CQEntries*cqeStride

	a.singleMmap = params.Features&sys.IORING_FEAT_SINGLE_MMAP != 0
	if a.singleMmap && cqRingSize > sqRingSize {
		sqRingSize = cqRingSize
	}

	sqData, err := sys.Mmap(fd, int64(sys.IORING_OFF_SQ_RING), int(sqRingSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		return nil, nil, nil, err
	}
	a.sq.data = sqData

	var cqData []byte
	if a.singleMmap {
		cqData = sqData
	} else {
		cqData, err = sys.Mmap(fd, int64(sys.IORING_OFF_CQ_RING), int(cqRingSize),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
		if err != nil {
			a.Release()
			return nil, nil, nil, err
		}
		a.cq.data = cqData
	}

	sqesSize := params.SQEntries * uint32(sqeSlotSize)
	sqesData, err := sys.Mmap(fd, int64(sys.IORING_OFF_SQES), int(sqesSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		a.Release()
		return nil, nil, nil, err
	}
	a.sqes.data = sqesData

	return sqData, cqData, sqesData, nil
}

// Release implements Arena.
func (a *FileBackedArena) Release() {
	if !a.singleMmap {
		a.cq.release()
	}
	a.sq.release()
	a.sqes.release()
}
