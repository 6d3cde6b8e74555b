// Package ddefake provides recording stand-ins for the DDE native
// capabilities.
package ddefake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"golang.org/x/text/encoding/unicode"
)

var ErrBadHandle = errors.New("ddefake: handle cannot be locked")

// Sent is one reply recorded by Replier.
type Sent struct {
	Msg     uint32
	To      dde.HWND
	From    dde.HWND
	App     atom.Atom
	Topic   atom.Atom
	Status  dde.Status
	Payload dde.Handle
	Param   uintptr
	Posted  bool
}

// Replier records every reply instead of sending it. SendErr fails
// initiate acks; PostErr fails everything that is posted.
type Replier struct {
	mu      sync.Mutex
	sent    []Sent
	SendErr error
	PostErr error
}

func (r *Replier) AckInitiate(to, from dde.HWND, app, topic atom.Atom, param uintptr) error {
	if r.SendErr != nil {
		return r.SendErr
	}
	r.record(Sent{Msg: dde.WMAck, To: to, From: from, App: app, Topic: topic, Param: param})
	return nil
}

func (r *Replier) AckExecute(to, from dde.HWND, status dde.Status, payload dde.Handle, param uintptr) error {
	if r.PostErr != nil {
		return r.PostErr
	}
	r.record(Sent{Msg: dde.WMAck, To: to, From: from, Status: status, Payload: payload, Param: param, Posted: true})
	return nil
}

func (r *Replier) Terminate(to, from dde.HWND) error {
	if r.PostErr != nil {
		return r.PostErr
	}
	r.record(Sent{Msg: dde.WMTerminate, To: to, From: from, Posted: true})
	return nil
}

func (r *Replier) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}

func (r *Replier) record(s Sent) {
	r.mu.Lock()
	r.sent = append(r.sent, s)
	r.mu.Unlock()
}

// Memory is a handle table of payload blocks with lock accounting.
type Memory struct {
	mu      sync.Mutex
	next    dde.Handle
	blocks  map[dde.Handle][]byte
	broken  map[dde.Handle]bool
	locks   map[dde.Handle]int
	unlocks map[dde.Handle]int
}

func NewMemory() *Memory {
	return &Memory{
		next:    0x1000,
		blocks:  make(map[dde.Handle][]byte),
		broken:  make(map[dde.Handle]bool),
		locks:   make(map[dde.Handle]int),
		unlocks: make(map[dde.Handle]int),
	}
}

// PutUTF16 stores s as a NUL-terminated UTF-16LE block.
func (m *Memory) PutUTF16(s string) dde.Handle {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	buf, err := enc.Bytes([]byte(s))
	if err != nil {
		panic(fmt.Sprintf("ddefake: encode %q: %v", s, err))
	}
	return m.Put(append(buf, 0, 0))
}

// PutUTF8 stores s as a NUL-terminated byte block.
func (m *Memory) PutUTF8(s string) dde.Handle {
	return m.Put(append([]byte(s), 0))
}

func (m *Memory) Put(block []byte) dde.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.next
	m.next += 0x10
	m.blocks[h] = block
	return h
}

// Broken returns a handle whose Lock always fails.
func (m *Memory) Broken() dde.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.next
	m.next += 0x10
	m.broken[h] = true
	return h
}

func (m *Memory) Lock(h dde.Handle) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken[h] {
		return nil, ErrBadHandle
	}
	b, ok := m.blocks[h]
	if !ok {
		return nil, fmt.Errorf("%w: %#x", ErrBadHandle, uintptr(h))
	}
	m.locks[h]++
	return b, nil
}

func (m *Memory) Unlock(h dde.Handle) {
	m.mu.Lock()
	m.unlocks[h]++
	m.mu.Unlock()
}

// Balance returns lock and unlock counts for h.
func (m *Memory) Balance(h dde.Handle) (locks, unlocks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[h], m.unlocks[h]
}
