package dde

import (
	"time"

	"github.com/google/uuid"
)

// session is one conversation opened by a matching initiate. Sessions are
// only tracked when strict sessions are enabled.
type session struct {
	id       string
	peer     HWND
	window   HWND
	opened   time.Time
	executes int
}

type sessionTable struct {
	byPeer map[HWND]*session
	now    func() time.Time
}

func newSessionTable() *sessionTable {
	return &sessionTable{
		byPeer: make(map[HWND]*session),
		now:    time.Now,
	}
}

// open starts a session for peer, replacing any previous one.
func (t *sessionTable) open(peer, window HWND) *session {
	s := &session{
		id:     uuid.NewString(),
		peer:   peer,
		window: window,
		opened: t.now(),
	}
	t.byPeer[peer] = s
	return s
}

func (t *sessionTable) get(peer HWND) (*session, bool) {
	s, ok := t.byPeer[peer]
	return s, ok
}

func (t *sessionTable) close(peer HWND) (*session, bool) {
	s, ok := t.byPeer[peer]
	if ok {
		delete(t.byPeer, peer)
	}
	return s, ok
}
