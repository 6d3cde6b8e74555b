package dde

import "errors"

var (
	ErrInvalidIdentity = errors.New("dde: invalid identity")
	ErrClosed          = errors.New("dde: filter closed")
	ErrLockFailed      = errors.New("dde: payload lock failed")
	ErrNilCapability   = errors.New("dde: nil capability")
)
