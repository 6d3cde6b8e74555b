//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"github.com/danmuck/ddeurl/internal/protocol/dde"
)

// Memory locks HGLOBAL payload blocks. The returned slice aliases the
// locked block and is only valid until Unlock.
type Memory struct{}

func (Memory) Lock(h dde.Handle) ([]byte, error) {
	if h == 0 {
		return nil, fmt.Errorf("win32: null payload handle")
	}
	size, _, _ := procGlobalSize.Call(uintptr(h))
	p, _, callErr := procGlobalLock.Call(uintptr(h))
	if p == 0 {
		return nil, fmt.Errorf("win32: GlobalLock(%#x): %v", uintptr(h), callErr)
	}
	return lockedBytes(p, size), nil
}

func (Memory) Unlock(h dde.Handle) {
	procGlobalUnlock.Call(uintptr(h))
}

// lockedBytes views a locked global block as a slice. The block is owned by
// the peer and pinned by the lock, outside the Go heap, so reinterpreting
// the address is safe until the matching GlobalUnlock. Reading it through a
// *unsafe.Pointer keeps the conversion out of uintptr arithmetic.
func lockedBytes(p, size uintptr) []byte {
	if size == 0 {
		return []byte{}
	}
	base := *(*unsafe.Pointer)(unsafe.Pointer(&p))
	return unsafe.Slice((*byte)(base), int(size))
}
