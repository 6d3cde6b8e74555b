package dde

import "github.com/danmuck/ddeurl/internal/atom"

// Native window message identifiers.
const (
	WMInitiate  uint32 = 0x03E0
	WMTerminate uint32 = 0x03E1
	WMAck       uint32 = 0x03E4
	WMExecute   uint32 = 0x03E8
)

// HWND is an opaque native window handle.
type HWND uintptr

// Handle is an opaque global memory handle carrying a payload.
type Handle uintptr

type Kind int

const (
	KindOther Kind = iota
	KindInitiate
	KindExecute
	KindTerminate
)

func (k Kind) String() string {
	switch k {
	case KindInitiate:
		return "initiate"
	case KindExecute:
		return "execute"
	case KindTerminate:
		return "terminate"
	default:
		return "other"
	}
}

// KindOf maps a native message identifier to its Kind.
func KindOf(id uint32) Kind {
	switch id {
	case WMInitiate:
		return KindInitiate
	case WMExecute:
		return KindExecute
	case WMTerminate:
		return KindTerminate
	default:
		return KindOther
	}
}

// Initiate carries the requested identity from the low and high words of
// the initiate lParam.
type Initiate struct {
	Application atom.Atom
	Topic       atom.Atom
}

// Execute carries the unpacked payload reference. Unpacked is false when the
// adapter could not unpack the compound lParam.
type Execute struct {
	Payload  Handle
	Unpacked bool
}

// Message is one native message after boundary decoding. Only the field
// matching Kind is meaningful.
type Message struct {
	Kind     Kind
	Window   HWND
	Peer     HWND
	Param    uintptr
	Initiate Initiate
	Execute  Execute
}

// NewInitiate builds the decoded form of an initiate message.
func NewInitiate(window, peer HWND, app, topic atom.Atom) Message {
	return Message{
		Kind:     KindInitiate,
		Window:   window,
		Peer:     peer,
		Param:    uintptr(app) | uintptr(topic)<<16,
		Initiate: Initiate{Application: app, Topic: topic},
	}
}

// NewExecute builds the decoded form of an execute message whose lParam
// unpacked to payload.
func NewExecute(window, peer HWND, param uintptr, payload Handle) Message {
	return Message{
		Kind:    KindExecute,
		Window:  window,
		Peer:    peer,
		Param:   param,
		Execute: Execute{Payload: payload, Unpacked: true},
	}
}

// NewTerminate builds the decoded form of a terminate message.
func NewTerminate(window, peer HWND) Message {
	return Message{Kind: KindTerminate, Window: window, Peer: peer}
}

// SplitParam returns the low and high words of an initiate lParam.
func SplitParam(param uintptr) (lo, hi atom.Atom) {
	return atom.Atom(param & 0xFFFF), atom.Atom((param >> 16) & 0xFFFF)
}
