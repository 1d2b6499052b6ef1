//go:build linux

package uringio

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/lattice-io/uringio/internal/sys"
)

// hugePageSize is the x86-64/arm64 default transparent-huge-page size this
// library sizes anonymous regions against. A region that would need more
// than one huge page is rejected rather than silently spanning several,
// matching the huge-page sizing rule carried over from the original
// reference implementation's arena design.
const hugePageSize = 2 << 20

// PreMappingArena is implemented by Arena variants that must supply memory
// addresses to the kernel before io_uring_setup is called, reversing the
// usual setup-then-mmap order. Setup detects this via a type assertion and
// calls Reserve first.
type PreMappingArena interface {
	Arena
	// Reserve allocates the regions up front, sized from the entry counts
	// the caller has already placed in params and the selected CQEClass's
	// physical stride, and writes their addresses into the offset tables'
	// UserAddr fields plus IORING_SETUP_NO_MMAP into params.Flags.
	Reserve(params *sys.Params, cqeStride uint32) error
}

// AnonymousArena backs a ring with anonymous, huge-page-preferring memory
// supplied directly by userspace via IORING_SETUP_NO_MMAP, rather than
// memory the kernel mmaps against the ring fd. The teacher library never
// implements this path.
type AnonymousArena struct {
	sq   mmapRegion
	cq   mmapRegion
	sqes mmapRegion
}

var (
	_ Arena           = (*AnonymousArena)(nil)
	_ PreMappingArena = (*AnonymousArena)(nil)
)

// Reserve implements PreMappingArena.
func (a *AnonymousArena) Reserve(params *sys.Params, cqeStride uint32) error {
	sqRingSize := int(sqRingLayoutSize(params.SQEntries))
	cqEntries := params.CQEntries
	if cqEntries == 0 {
		cqEntries = 2 * params.SQEntries
	}
	cqRingSize := int(cqRingLayoutSize(cqEntries, cqeStride))
	sqesSize := int(params.SQEntries) * sqeSlotSize

	if sqRingSize > hugePageSize || cqRingSize > hugePageSize || sqesSize > hugePageSize {
		return fmt.Errorf("uringio: anonymous arena region exceeds huge page size (%d bytes)", hugePageSize)
	}

	sqData, err := mmapAnonHuge(sqRingSize)
	if err != nil {
		return err
	}
	a.sq.data = sqData

	cqData, err := mmapAnonHuge(cqRingSize)
	if err != nil {
		a.Release()
		return err
	}
	a.cq.data = cqData

	sqesData, err := mmapAnonHuge(sqesSize)
	if err != nil {
		a.Release()
		return err
	}
	a.sqes.data = sqesData

	params.Flags |= sys.IORING_SETUP_NO_MMAP
	params.SQOff.UserAddr = uint64(uintptr(unsafe.Pointer(&sqData[0])))
	params.CQOff.UserAddr = uint64(uintptr(unsafe.Pointer(&cqData[0])))
	return nil
}

// Map implements Arena. For the anonymous arena the kernel writes ring
// contents directly into the memory Reserve already obtained, so Map simply
// hands those regions back rather than mapping anything new.
func (a *AnonymousArena) Map(fd int, params *sys.Params, cqeStride uint32) (sqRing, cqRing, sqes []byte, err error) {
	return a.sq.data, a.cq.data, a.sqes.data, nil
}

// Release implements Arena.
func (a *AnonymousArena) Release() {
	a.sq.release()
	a.cq.release()
	a.sqes.release()
}

func mmapAnonHuge(size int) ([]byte, error) {
	if size == 0 {
		size = 4096
	}
	data, err := sys.MmapAnonymous(size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_HUGETLB)
	if err == nil {
		return data, nil
	}

	// MAP_HUGETLB requires a kernel-reserved huge page pool; fall back to a
	// regular anonymous mapping and advise the kernel to back it with
	// transparent huge pages instead.
	data, err = sys.MmapAnonymous(size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}
	_ = sys.Madvise(data, unix.MADV_HUGEPAGE)
	return data, nil
}

func sqRingLayoutSize(sqEntries uint32) uint32 {
	// array offset plus one uint32 index per entry; matches the teacher's
	// sqRingSize computation in mapRings.
	return uint32(unsafe.Sizeof(sys.SQRingOffsets{})) + sqEntries*4
}

func cqRingLayoutSize(cqEntries, cqeStride uint32) uint32 {
	return uint32(unsafe.Sizeof(sys.CQRingOffsets{})) + cqEntries*cqeStride
}
