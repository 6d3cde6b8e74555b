//go:build windows

package win32

import (
	"fmt"

	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
)

// Replier sends DDE replies through user32.
type Replier struct{}

// AckInitiate sends the acknowledgment synchronously. SendMessageW reports
// nothing useful for WM_DDE_ACK, so a dead peer is caught beforehand.
func (Replier) AckInitiate(to, from dde.HWND, app, topic atom.Atom, param uintptr) error {
	if r, _, _ := procIsWindow.Call(uintptr(to)); r == 0 {
		return fmt.Errorf("win32: initiate ack to %#x: peer window is gone", uintptr(to))
	}
	lp := reuseParam(param, dde.WMInitiate, dde.WMAck, uintptr(app), uintptr(topic))
	if lp == 0 {
		return fmt.Errorf("win32: ReuseDDElParam for initiate ack to %#x failed", uintptr(to))
	}
	procSendMessageW.Call(uintptr(to), uintptr(dde.WMAck), uintptr(from), lp)
	return nil
}

func (Replier) AckExecute(to, from dde.HWND, status dde.Status, payload dde.Handle, param uintptr) error {
	lp := reuseParam(param, dde.WMExecute, dde.WMAck, uintptr(status), uintptr(payload))
	r, _, callErr := procPostMessageW.Call(uintptr(to), uintptr(dde.WMAck), uintptr(from), lp)
	if r == 0 {
		procFreeDDElParam.Call(uintptr(dde.WMAck), lp)
		return fmt.Errorf("win32: post execute ack to %#x: %v", uintptr(to), callErr)
	}
	return nil
}

func (Replier) Terminate(to, from dde.HWND) error {
	r, _, callErr := procPostMessageW.Call(uintptr(to), uintptr(dde.WMTerminate), uintptr(from), 0)
	if r == 0 {
		return fmt.Errorf("win32: post terminate to %#x: %v", uintptr(to), callErr)
	}
	return nil
}
