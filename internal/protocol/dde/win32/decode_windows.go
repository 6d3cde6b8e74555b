//go:build windows

package win32

import (
	"unsafe"

	"github.com/danmuck/ddeurl/internal/protocol/dde"
)

// Decode turns raw MSG fields into a dde.Message. Non-DDE messages decode
// to KindOther with Param preserved.
func Decode(id uint32, hwnd, wParam, lParam uintptr) dde.Message {
	window := dde.HWND(hwnd)
	peer := dde.HWND(wParam)
	switch dde.KindOf(id) {
	case dde.KindInitiate:
		app, topic := dde.SplitParam(lParam)
		return dde.NewInitiate(window, peer, app, topic)
	case dde.KindExecute:
		var lo, hi uintptr
		r, _, _ := procUnpackDDElParam.Call(
			uintptr(dde.WMExecute),
			lParam,
			uintptr(unsafe.Pointer(&lo)),
			uintptr(unsafe.Pointer(&hi)),
		)
		if r == 0 {
			return dde.Message{Kind: dde.KindExecute, Window: window, Peer: peer, Param: lParam}
		}
		return dde.NewExecute(window, peer, lParam, dde.Handle(hi))
	case dde.KindTerminate:
		msg := dde.NewTerminate(window, peer)
		msg.Param = lParam
		return msg
	default:
		return dde.Message{Kind: dde.KindOther, Window: window, Peer: peer, Param: lParam}
	}
}

func reuseParam(param uintptr, in, out uint32, lo, hi uintptr) uintptr {
	r, _, _ := procReuseDDElParam.Call(param, uintptr(in), uintptr(out), lo, hi)
	return r
}
