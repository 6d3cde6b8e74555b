//go:build windows

package win32

import (
	"testing"

	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/danmuck/ddeurl/internal/testutil/testlog"
)

var (
	procGlobalAlloc = kernel32.NewProc("GlobalAlloc")
	procGlobalFree  = kernel32.NewProc("GlobalFree")
)

const gmemMoveable = 0x0002

func TestMemoryLockSeesBlockContents(t *testing.T) {
	testlog.Start(t)
	h, _, err := procGlobalAlloc.Call(gmemMoveable, 4)
	if h == 0 {
		t.Fatalf("GlobalAlloc: %v", err)
	}
	t.Cleanup(func() { procGlobalFree.Call(h) })

	var mem Memory
	data, lockErr := mem.Lock(dde.Handle(h))
	if lockErr != nil {
		t.Fatalf("lock: %v", lockErr)
	}
	if len(data) < 4 {
		t.Fatalf("block too small: %d", len(data))
	}
	copy(data, []byte{'r', 0, 0, 0})
	mem.Unlock(dde.Handle(h))

	again, lockErr := mem.Lock(dde.Handle(h))
	if lockErr != nil {
		t.Fatalf("relock: %v", lockErr)
	}
	defer mem.Unlock(dde.Handle(h))
	if again[0] != 'r' || again[1] != 0 {
		t.Fatalf("unexpected block contents: %v", again[:4])
	}
}

func TestMemoryLockRejectsNullHandle(t *testing.T) {
	testlog.Start(t)
	if _, err := (Memory{}).Lock(0); err == nil {
		t.Fatalf("expected error for null handle")
	}
}
