package dde

import "github.com/danmuck/ddeurl/internal/atom"

// Status is the low word of an execute acknowledgment.
type Status uint16

const (
	StatusAck  Status = 0x8000
	StatusBusy Status = 0x4000 // negative, server still processing an earlier execute
	StatusNack Status = 0x0000
)

func (s Status) Positive() bool {
	return s&StatusAck != 0
}

// Replier sends protocol replies to a peer window.
type Replier interface {
	// AckInitiate sends (synchronously) an acknowledgment claiming the
	// conversation. The native send blocks the peer until it returns; a peer
	// that never pumps its queue blocks here too, which the transport cannot
	// avoid.
	AckInitiate(to, from HWND, app, topic atom.Atom, param uintptr) error
	// AckExecute posts the execute acknowledgment, returning payload to the
	// sender for release.
	AckExecute(to, from HWND, status Status, payload Handle, param uintptr) error
	// Terminate posts a terminate reply with no payload.
	Terminate(to, from HWND) error
}

// Memory gives read access to a payload handle. Every successful Lock is
// paired with exactly one Unlock.
type Memory interface {
	Lock(h Handle) ([]byte, error)
	Unlock(h Handle)
}
