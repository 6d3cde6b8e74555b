//go:build windows

package win32

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"golang.org/x/sys/windows"
)

const wmQuit = 0x0012

// MSG mirrors the Win32 MSG structure.
type MSG struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       struct{ X, Y int32 }
	LPrivate uint32
}

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

// Handler sees every message delivered to a Window's procedure, sent or
// dispatched from the queue, and reports whether it handled it.
type Handler func(msg dde.Message) (result uintptr, handled bool)

var (
	handlersMu sync.RWMutex
	handlers   = make(map[uintptr]Handler)

	// one callback for every window: callbacks are never freed
	wndProc = windows.NewCallback(windowProc)
)

// windowProc runs for sent messages (the initiate broadcast never reaches
// the queue) and for posted ones passed on by DispatchMessageW, so each
// message is decoded and routed here exactly once.
func windowProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	handlersMu.RLock()
	h := handlers[hwnd]
	handlersMu.RUnlock()
	if h != nil {
		if r, ok := h(Decode(uint32(msg), hwnd, wParam, lParam)); ok {
			return r
		}
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, msg, wParam, lParam)
	return r
}

// Window is a hidden top-level window. Initiate messages are broadcast to
// top-level windows only, so a message-only window would never see them.
type Window struct {
	hwnd     uintptr
	class    *uint16
	instance windows.Handle
}

// NewWindow registers className and creates the window. Messages delivered
// during creation go to DefWindowProcW; h sees everything after that.
func NewWindow(className, title string, h Handler) (*Window, error) {
	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return nil, fmt.Errorf("win32: module handle: %w", err)
	}
	class, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return nil, err
	}
	name, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return nil, err
	}

	wc := wndClassEx{
		WndProc:   wndProc,
		Instance:  instance,
		ClassName: class,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	if r, _, callErr := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
		return nil, fmt.Errorf("win32: RegisterClassExW(%s): %v", className, callErr)
	}

	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(name)),
		0, 0, 0, 0, 0,
		0, 0,
		uintptr(instance),
		0,
	)
	if hwnd == 0 {
		procUnregisterClassW.Call(uintptr(unsafe.Pointer(class)), uintptr(instance))
		return nil, fmt.Errorf("win32: CreateWindowExW(%s): %v", className, callErr)
	}
	if h != nil {
		handlersMu.Lock()
		handlers[hwnd] = h
		handlersMu.Unlock()
	}
	return &Window{hwnd: hwnd, class: class, instance: instance}, nil
}

func (w *Window) HWND() dde.HWND {
	return dde.HWND(w.hwnd)
}

func (w *Window) Close() error {
	if w.hwnd == 0 {
		return nil
	}
	handlersMu.Lock()
	delete(handlers, w.hwnd)
	handlersMu.Unlock()
	r, _, callErr := procDestroyWindow.Call(w.hwnd)
	w.hwnd = 0
	procUnregisterClassW.Call(uintptr(unsafe.Pointer(w.class)), uintptr(w.instance))
	if r == 0 {
		return fmt.Errorf("win32: DestroyWindow: %v", callErr)
	}
	return nil
}

// GetMessage blocks for the next message on the calling thread's queue.
// It returns false once WM_QUIT is retrieved.
func GetMessage(msg *MSG) (bool, error) {
	r, _, callErr := procGetMessageW.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0)
	switch int32(r) {
	case -1:
		return false, fmt.Errorf("win32: GetMessageW: %v", callErr)
	case 0:
		return false, nil
	default:
		return true, nil
	}
}

func TranslateDispatch(msg *MSG) {
	procTranslateMessage.Call(uintptr(unsafe.Pointer(msg)))
	procDispatchMessageW.Call(uintptr(unsafe.Pointer(msg)))
}

// PostQuit asks the message loop on threadID to stop.
func PostQuit(threadID uint32) error {
	r, _, callErr := procPostThreadMsgW.Call(uintptr(threadID), wmQuit, 0, 0)
	if r == 0 {
		return fmt.Errorf("win32: PostThreadMessageW: %v", callErr)
	}
	return nil
}

// CurrentThreadID is the id PostQuit expects.
func CurrentThreadID() uint32 {
	return windows.GetCurrentThreadId()
}
