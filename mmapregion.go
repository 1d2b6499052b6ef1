//go:build linux

package uringio

import "github.com/lattice-io/uringio/internal/sys"

// mmapRegion is a single owned mapping, released at most once. Both arena
// variants hold one of these per region (sq, cq, sqes) and release each of
// them in their Release method.
type mmapRegion struct {
	data []byte
}

// release unmaps the region if it is still mapped. Errors from munmap are
// swallowed: by the time Release runs there is no corrective action left to
// take, matching the "Release... errors swallowed" contract.
func (m *mmapRegion) release() {
	if m.data == nil {
		return
	}
	_ = sys.Munmap(m.data)
	m.data = nil
}
