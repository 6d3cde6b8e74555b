package atom

import (
	"strings"
	"sync"
)

const (
	firstStringAtom Atom = 0xC000
	lastStringAtom  Atom = 0xFFFF
)

type memoryEntry struct {
	name string
	refs int
}

// MemoryTable is an in-process Table with the same observable rules as the
// Win32 global atom table: case-insensitive names, reference counts, and
// string atoms allocated from 0xC000.
type MemoryTable struct {
	mu       sync.Mutex
	capacity int
	next     Atom
	byAtom   map[Atom]*memoryEntry
	byName   map[string]Atom
}

// NewMemoryTable builds an empty table. capacity <= 0 means the full
// string-atom range.
func NewMemoryTable(capacity int) *MemoryTable {
	max := int(lastStringAtom-firstStringAtom) + 1
	if capacity <= 0 || capacity > max {
		capacity = max
	}
	return &MemoryTable{
		capacity: capacity,
		next:     firstStringAtom,
		byAtom:   make(map[Atom]*memoryEntry),
		byName:   make(map[string]Atom),
	}
}

func (t *MemoryTable) Add(name string) (Atom, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	key := strings.ToLower(name)

	t.mu.Lock()
	defer t.mu.Unlock()

	if a, ok := t.byName[key]; ok {
		t.byAtom[a].refs++
		return a, nil
	}
	if len(t.byAtom) >= t.capacity {
		return 0, ErrTableExhausted
	}
	a := t.allocLocked()
	t.byAtom[a] = &memoryEntry{name: name, refs: 1}
	t.byName[key] = a
	return a, nil
}

func (t *MemoryTable) Delete(a Atom) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.byAtom[a]
	if !ok {
		return ErrUnknownAtom
	}
	e.refs--
	if e.refs <= 0 {
		delete(t.byAtom, a)
		delete(t.byName, strings.ToLower(e.name))
	}
	return nil
}

// Find returns the atom for name without taking a reference.
func (t *MemoryTable) Find(name string) (Atom, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.byName[strings.ToLower(name)]
	return a, ok
}

// Len is the number of live entries.
func (t *MemoryTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byAtom)
}

// Refs is the reference count held on name, zero when absent.
func (t *MemoryTable) Refs(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.byName[strings.ToLower(name)]
	if !ok {
		return 0
	}
	return t.byAtom[a].refs
}

func (t *MemoryTable) allocLocked() Atom {
	for {
		a := t.next
		if t.next == lastStringAtom {
			t.next = firstStringAtom
		} else {
			t.next++
		}
		if _, used := t.byAtom[a]; !used {
			return a
		}
	}
}
