// Package dde owns the DDE conversation filter.
//
// Ownership boundary:
// - typed DDE message model (decoded once at the host loop boundary)
// - initiate/execute/terminate handling and acknowledgments
// - payload decoding into command strings
//
// The package never touches native memory or window handles directly; the
// Replier and Memory capabilities are provided by the platform adapter in
// package win32 or by test fakes.
package dde
