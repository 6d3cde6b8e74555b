//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"github.com/danmuck/ddeurl/internal/atom"
	"golang.org/x/sys/windows"
)

// SystemTable is the process-wide global atom table.
type SystemTable struct{}

func (SystemTable) Add(name string) (atom.Atom, error) {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	r, _, callErr := procGlobalAddAtomW.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return 0, fmt.Errorf("%w: GlobalAddAtomW: %v", atom.ErrTableExhausted, callErr)
	}
	return atom.Atom(r), nil
}

func (SystemTable) Delete(a atom.Atom) error {
	// zero means success; the atom is returned on failure
	r, _, callErr := procGlobalDeleteAtom.Call(uintptr(a))
	if r != 0 {
		return fmt.Errorf("%w: GlobalDeleteAtom(%#x): %v", atom.ErrUnknownAtom, uint16(a), callErr)
	}
	return nil
}
