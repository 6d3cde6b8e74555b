//go:build !windows

package main

import (
	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/hostloop"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/danmuck/ddeurl/internal/settings"
)

const defaultStoreKind = storeFile

// Off Windows there is no peer to reply to; registration still works against
// a file or memory store.
type noReplier struct{}

func (noReplier) AckInitiate(to, from dde.HWND, app, topic atom.Atom, param uintptr) error {
	return hostloop.ErrUnsupported
}

func (noReplier) AckExecute(to, from dde.HWND, status dde.Status, payload dde.Handle, param uintptr) error {
	return hostloop.ErrUnsupported
}

func (noReplier) Terminate(to, from dde.HWND) error {
	return hostloop.ErrUnsupported
}

type noMemory struct{}

func (noMemory) Lock(h dde.Handle) ([]byte, error) {
	return nil, hostloop.ErrUnsupported
}

func (noMemory) Unlock(h dde.Handle) {}

func nativeCapabilities() (atom.Table, dde.Replier, dde.Memory) {
	return atom.NewMemoryTable(0), noReplier{}, noMemory{}
}

func registryStore() (settings.Store, error) {
	return nil, hostloop.ErrUnsupported
}
