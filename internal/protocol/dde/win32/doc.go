// Package win32 adapts the Win32 DDE primitives to package dde.
//
// Ownership boundary:
// - decoding raw MSG fields into dde.Message
// - dde.Replier and dde.Memory over user32/kernel32
// - the global atom table as an atom.Table
// - the hidden top-level window used as the DDE server endpoint
package win32
