// Package atom owns interned-name handles.
//
// Ownership boundary:
// - the Table capability (process-wide interned string table)
// - scoped acquire/release of one name
// - an in-memory table for tests and non-Windows hosts
package atom

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName      = errors.New("atom: empty name")
	ErrTableExhausted = errors.New("atom: table exhausted")
	ErrUnknownAtom    = errors.New("atom: unknown atom")
)

// Atom is an interned-name handle. Zero is never a valid atom.
type Atom uint16

// Table is the interned string table shared by a whole process.
//
// Add interns name and increments its reference count. Delete decrements it
// and drops the entry when no holder remains.
type Table interface {
	Add(name string) (Atom, error)
	Delete(a Atom) error
}

// Name is one scoped acquisition against a Table. Release it exactly once.
type Name struct {
	table    Table
	name     string
	atom     Atom
	released bool
}

// Acquire interns name. It never returns a zero atom with a nil error.
func Acquire(t Table, name string) (*Name, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	a, err := t.Add(name)
	if err != nil {
		return nil, fmt.Errorf("atom: acquire %q: %w", name, err)
	}
	if a == 0 {
		return nil, fmt.Errorf("%w: zero atom for %q", ErrTableExhausted, name)
	}
	return &Name{table: t, name: name, atom: a}, nil
}

func (n *Name) Atom() Atom {
	return n.atom
}

func (n *Name) String() string {
	return n.name
}

// Matches reports whether a is the handle held for this name.
func (n *Name) Matches(a Atom) bool {
	return !n.released && a == n.atom
}

// Release returns the handle to the table. Later calls are no-ops.
func (n *Name) Release() error {
	if n == nil || n.released {
		return nil
	}
	n.released = true
	if err := n.table.Delete(n.atom); err != nil {
		return fmt.Errorf("atom: release %q: %w", n.name, err)
	}
	return nil
}

// AcquirePair interns both names, releasing the first if the second fails.
func AcquirePair(t Table, first, second string) (*Name, *Name, error) {
	a, err := Acquire(t, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := Acquire(t, second)
	if err != nil {
		_ = a.Release()
		return nil, nil, err
	}
	return a, b, nil
}
