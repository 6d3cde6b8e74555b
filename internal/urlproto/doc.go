// Package urlproto owns URL scheme registration and activation.
//
// Ownership boundary:
// - the persisted scheme record (install/uninstall)
// - the DDE filter lifetime inside the host loop
// - republishing decoded commands as activate(url) events
package urlproto
