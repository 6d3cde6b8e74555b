// Package hostloop owns the native message filter chain.
//
// Ownership boundary:
// - install/remove of message filters
// - ordered dispatch of decoded messages
// - the Win32 message pump that feeds the chain
package hostloop

import (
	"errors"
	"sync"
	"time"

	"github.com/danmuck/ddeurl/internal/observability"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/rs/zerolog"
)

var ErrUnsupported = errors.New("hostloop: native message pump unsupported on this platform")

// Filter sees every decoded message before normal dispatch and reports
// whether it fully handled it.
type Filter interface {
	HandleMessage(msg dde.Message) bool
}

// Host is the install surface a filter owner needs.
type Host interface {
	Install(f Filter)
	Remove(f Filter)
}

// Loop is an ordered filter chain. The most recently installed filter runs
// first; the first filter reporting true stops the chain.
type Loop struct {
	mu      sync.Mutex
	filters []Filter
	logger  zerolog.Logger
}

func New(logger zerolog.Logger) *Loop {
	return &Loop{logger: logger}
}

// Install adds f to the front of the chain. Installing a filter twice is a
// no-op.
func (l *Loop) Install(f Filter) {
	if f == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.filters {
		if existing == f {
			return
		}
	}
	l.filters = append([]Filter{f}, l.filters...)
	l.logger.Debug().Int("filters", len(l.filters)).Msg("filter installed")
}

func (l *Loop) Remove(f Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.filters {
		if existing == f {
			l.filters = append(l.filters[:i:i], l.filters[i+1:]...)
			l.logger.Debug().Int("filters", len(l.filters)).Msg("filter removed")
			return
		}
	}
}

func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.filters)
}

// Dispatch offers msg to the chain and reports whether any filter handled it.
func (l *Loop) Dispatch(msg dde.Message) bool {
	l.mu.Lock()
	chain := make([]Filter, len(l.filters))
	copy(chain, l.filters)
	l.mu.Unlock()

	start := time.Now()
	handled := false
	for _, f := range chain {
		if f.HandleMessage(msg) {
			handled = true
			break
		}
	}
	if msg.Kind != dde.KindOther {
		observability.RecordDispatch(handled, time.Since(start))
		l.logger.Trace().Str("kind", msg.Kind.String()).Bool("handled", handled).Msg("dispatch")
	}
	return handled
}

// WindowProc routes one message delivered to the server window's procedure.
// A handled message returns 0 to its sender; anything else goes on to the
// default window procedure.
func (l *Loop) WindowProc(msg dde.Message) (result uintptr, handled bool) {
	if !l.Dispatch(msg) {
		return 0, false
	}
	return 0, true
}
