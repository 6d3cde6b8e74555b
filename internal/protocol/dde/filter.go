package dde

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/observability"
	"github.com/rs/zerolog"
)

// Identity is the (application, topic) pair a filter accepts.
type Identity struct {
	Application string
	Topic       string
}

func (id Identity) Validate() error {
	if strings.TrimSpace(id.Application) == "" {
		return fmt.Errorf("%w: missing application", ErrInvalidIdentity)
	}
	if strings.TrimSpace(id.Topic) == "" {
		return fmt.Errorf("%w: missing topic", ErrInvalidIdentity)
	}
	return nil
}

// CommandFunc receives one decoded execute command.
type CommandFunc func(command string)

type options struct {
	logger   zerolog.Logger
	strict   bool
	encoding Encoding
}

type Option func(*options)

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStrictSessions rejects execute and terminate messages from peers that
// never completed a matching initiate.
func WithStrictSessions(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

func WithEncoding(enc Encoding) Option {
	return func(o *options) { o.encoding = enc }
}

// Filter answers DDE conversations for one Identity. It runs on the host
// loop thread only and holds no locks.
type Filter struct {
	identity    Identity
	app         *atom.Name
	topic       *atom.Name
	replier     Replier
	memory      Memory
	encoding    Encoding
	logger      zerolog.Logger
	sessions    *sessionTable
	subscribers []CommandFunc
	emitting    bool
	closed      bool
}

// NewFilter interns the identity names and returns a filter ready to be
// installed in a host loop. Failure to intern either name is fatal: a filter
// without valid atoms could not check identity at all.
func NewFilter(names atom.Table, id Identity, rep Replier, mem Memory, opts ...Option) (*Filter, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if names == nil || rep == nil || mem == nil {
		return nil, ErrNilCapability
	}
	o := options{logger: zerolog.Nop(), encoding: EncodingUTF16}
	for _, opt := range opts {
		opt(&o)
	}

	app, topic, err := atom.AcquirePair(names, id.Application, id.Topic)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		identity: id,
		app:      app,
		topic:    topic,
		replier:  rep,
		memory:   mem,
		encoding: o.encoding,
		logger:   o.logger.With().Str("application", id.Application).Str("topic", id.Topic).Logger(),
	}
	if o.strict {
		f.sessions = newSessionTable()
	}
	f.logger.Debug().
		Uint16("app_atom", uint16(app.Atom())).
		Uint16("topic_atom", uint16(topic.Atom())).
		Bool("strict", o.strict).
		Msg("dde filter ready")
	return f, nil
}

func (f *Filter) Identity() Identity {
	return f.identity
}

// OnCommand registers fn for every decoded command. Callbacks run
// synchronously on the thread that delivered the execute message. A closed
// filter raises no further commands and rejects new subscribers with
// ErrClosed.
func (f *Filter) OnCommand(fn CommandFunc) error {
	if f.closed {
		return ErrClosed
	}
	if fn != nil {
		f.subscribers = append(f.subscribers, fn)
	}
	return nil
}

// HandleMessage processes one decoded native message and reports whether it
// was fully handled. It never panics.
func (f *Filter) HandleMessage(msg Message) (handled bool) {
	if f.closed {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Str("kind", msg.Kind.String()).Msg("dde handler panic")
			observability.RecordDDEMessage(msg.Kind.String(), "panic")
			handled = msg.Kind == KindExecute
		}
	}()

	switch msg.Kind {
	case KindInitiate:
		return f.handleInitiate(msg)
	case KindExecute:
		return f.handleExecute(msg)
	case KindTerminate:
		f.handleTerminate(msg)
		return false
	default:
		return false
	}
}

// Close releases the interned names. The filter must already be removed
// from the host loop.
func (f *Filter) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	errTopic := f.topic.Release()
	errApp := f.app.Release()
	if errApp != nil {
		return errApp
	}
	return errTopic
}

func (f *Filter) handleInitiate(msg Message) bool {
	req := msg.Initiate
	if !f.app.Matches(req.Application) || !f.topic.Matches(req.Topic) {
		observability.RecordDDEMessage("initiate", "mismatch")
		f.logger.Trace().
			Uint16("app_atom", uint16(req.Application)).
			Uint16("topic_atom", uint16(req.Topic)).
			Msg("initiate for another conversation")
		return false
	}

	var conversation string
	if f.sessions != nil {
		conversation = f.sessions.open(msg.Peer, msg.Window).id
	}
	if err := f.replier.AckInitiate(msg.Peer, msg.Window, f.app.Atom(), f.topic.Atom(), msg.Param); err != nil {
		if f.sessions != nil {
			f.sessions.close(msg.Peer)
		}
		observability.RecordDDEMessage("initiate", "ack_failed")
		f.logger.Error().Err(err).Uint64("peer", uint64(msg.Peer)).Msg("initiate ack failed")
		return true
	}
	observability.RecordDDEMessage("initiate", "ack")
	f.logger.Debug().Uint64("peer", uint64(msg.Peer)).Str("conversation", conversation).Msg("initiate acknowledged")
	return true
}

func (f *Filter) handleExecute(msg Message) bool {
	if !msg.Execute.Unpacked {
		observability.RecordDDEMessage("execute", "unpack_failed")
		f.logger.Warn().Uint64("peer", uint64(msg.Peer)).Msg("execute lParam could not be unpacked")
		return true
	}
	if f.emitting {
		// a subscriber is pumping messages from inside its callback
		f.ackExecute(msg, StatusBusy)
		observability.RecordDDEMessage("execute", "busy")
		f.logger.Warn().Uint64("peer", uint64(msg.Peer)).Msg("execute during command dispatch answered busy")
		return true
	}

	var conversation string
	if f.sessions != nil {
		s, ok := f.sessions.get(msg.Peer)
		if !ok {
			f.ackExecute(msg, StatusNack)
			observability.RecordDDEMessage("execute", "unsolicited")
			f.logger.Warn().Uint64("peer", uint64(msg.Peer)).Msg("execute without initiate rejected")
			return true
		}
		s.executes++
		conversation = s.id
	}

	command, err := f.readPayload(msg.Execute.Payload)
	if err != nil {
		f.ackExecute(msg, StatusNack)
		observability.RecordDDEMessage("execute", "nack")
		f.logger.Warn().Err(err).Uint64("peer", uint64(msg.Peer)).Msg("execute payload rejected")
		return true
	}

	f.ackExecute(msg, StatusAck)
	observability.RecordDDEMessage("execute", "ack")
	f.logger.Debug().
		Uint64("peer", uint64(msg.Peer)).
		Str("conversation", conversation).
		Int("bytes", len(command)).
		Msg("execute acknowledged")
	f.emit(command)
	return true
}

func (f *Filter) handleTerminate(msg Message) {
	if f.sessions != nil {
		s, ok := f.sessions.close(msg.Peer)
		if !ok {
			observability.RecordDDEMessage("terminate", "unsolicited")
			return
		}
		f.logger.Debug().
			Str("conversation", s.id).
			Uint64("window", uint64(s.window)).
			Int("executes", s.executes).
			Dur("age", time.Since(s.opened)).
			Msg("conversation closed")
	}
	if err := f.replier.Terminate(msg.Peer, msg.Window); err != nil {
		f.logger.Error().Err(err).Uint64("peer", uint64(msg.Peer)).Msg("terminate reply failed")
		observability.RecordDDEMessage("terminate", "reply_failed")
		return
	}
	observability.RecordDDEMessage("terminate", "reply")
}

// readPayload locks, decodes and unlocks the payload. Unlock runs on every
// path after a successful lock, including a decoder panic.
func (f *Filter) readPayload(h Handle) (command string, err error) {
	data, err := f.memory.Lock(h)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLockFailed, err)
	}
	defer f.memory.Unlock(h)
	defer func() {
		if r := recover(); r != nil {
			command, err = "", fmt.Errorf("dde: payload decode panic: %v", r)
		}
	}()
	return DecodePayload(data, f.encoding)
}

func (f *Filter) ackExecute(msg Message, status Status) {
	if err := f.replier.AckExecute(msg.Peer, msg.Window, status, msg.Execute.Payload, msg.Param); err != nil {
		f.logger.Error().Err(err).Uint64("peer", uint64(msg.Peer)).Msg("execute ack failed")
	}
}

func (f *Filter) emit(command string) {
	f.emitting = true
	defer func() { f.emitting = false }()
	for _, fn := range f.subscribers {
		f.call(fn, command)
	}
}

func (f *Filter) call(fn CommandFunc, command string) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Msg("command subscriber panic")
		}
	}()
	fn(command)
}
