package urlproto

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/hostloop"
	"github.com/danmuck/ddeurl/internal/observability"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/danmuck/ddeurl/internal/settings"
	"github.com/rs/zerolog"
)

// DefaultTopic is the topic used when none is configured.
const DefaultTopic = "System"

var (
	ErrNilStore = errors.New("urlproto: nil settings store")
	ErrNilHost  = errors.New("urlproto: nil host loop")
)

// Config names the scheme and the DDE identity that serves it.
type Config struct {
	Scheme         string
	Application    string
	Topic          string
	StrictSessions bool
	Encoding       dde.Encoding
}

// Deps are the native capabilities a Registrar is built on.
type Deps struct {
	Names   atom.Table
	Replier dde.Replier
	Memory  dde.Memory
	Host    hostloop.Host
	Store   settings.Store
	Logger  zerolog.Logger
}

// ActivateFunc receives one activation URL.
type ActivateFunc func(u *url.URL)

// Registrar installs a URL scheme and turns DDE execute commands for it into
// activate events.
type Registrar struct {
	cfg       Config
	store     settings.Store
	host      hostloop.Host
	filter    *dde.Filter
	logger    zerolog.Logger
	listeners []ActivateFunc
	closed    bool
}

// DefaultApplication is the running executable's base name without its
// extension.
func DefaultApplication() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		exe = os.Args[0]
	}
	base := filepath.Base(exe)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Application) == "" {
		c.Application = DefaultApplication()
	}
	if strings.TrimSpace(c.Topic) == "" {
		c.Topic = DefaultTopic
	}
	return c
}

// New builds the DDE filter for cfg and installs it in deps.Host. Nothing is
// written to the store until Install.
func New(cfg Config, deps Deps) (*Registrar, error) {
	if deps.Store == nil {
		return nil, ErrNilStore
	}
	if deps.Host == nil {
		return nil, ErrNilHost
	}
	cfg = cfg.withDefaults()
	logger := deps.Logger.With().Str("scheme", cfg.Scheme).Logger()

	filter, err := dde.NewFilter(
		deps.Names,
		dde.Identity{Application: cfg.Application, Topic: cfg.Topic},
		deps.Replier,
		deps.Memory,
		dde.WithLogger(logger),
		dde.WithStrictSessions(cfg.StrictSessions),
		dde.WithEncoding(cfg.Encoding),
	)
	if err != nil {
		return nil, fmt.Errorf("urlproto: %w", err)
	}

	r := &Registrar{
		cfg:    cfg,
		store:  deps.Store,
		host:   deps.Host,
		filter: filter,
		logger: logger,
	}
	if err := filter.OnCommand(r.onCommand); err != nil {
		_ = filter.Close()
		return nil, fmt.Errorf("urlproto: %w", err)
	}
	deps.Host.Install(filter)
	return r, nil
}

func (r *Registrar) Config() Config {
	return r.cfg
}

// OnActivate registers fn for every activation. fn runs on the host loop
// thread, once per decoded command. After Close it returns dde.ErrClosed.
func (r *Registrar) OnActivate(fn ActivateFunc) error {
	if r.closed {
		return fmt.Errorf("urlproto: activate listener: %w", dde.ErrClosed)
	}
	if fn != nil {
		r.listeners = append(r.listeners, fn)
	}
	return nil
}

// Record returns the registration Install would write for launchPath.
func (r *Registrar) Record(launchPath string) Record {
	return NewRecord(r.cfg.Scheme, launchPath, r.cfg.Application, r.cfg.Topic)
}

// Install writes the scheme registration. It is a no-op when the scheme is
// empty.
func (r *Registrar) Install(launchPath string) error {
	if r.cfg.Scheme == "" {
		return nil
	}
	err := r.install(launchPath)
	observability.RecordRegistrationOp(r.cfg.Scheme, "install", err)
	if err != nil {
		return err
	}
	r.logger.Info().Str("launch", launchPath).Msg("scheme installed")
	return nil
}

func (r *Registrar) install(launchPath string) error {
	if err := r.Record(launchPath).Write(r.store); err != nil {
		return err
	}
	if err := r.store.Sync(); err != nil {
		return fmt.Errorf("urlproto: sync: %w", err)
	}
	return nil
}

// Uninstall removes the scheme's subtree. With an empty scheme it touches
// nothing, since removing "" would take the whole classes namespace.
func (r *Registrar) Uninstall() error {
	if r.cfg.Scheme == "" {
		return nil
	}
	err := r.uninstall()
	observability.RecordRegistrationOp(r.cfg.Scheme, "uninstall", err)
	if err != nil {
		return err
	}
	r.logger.Info().Msg("scheme uninstalled")
	return nil
}

func (r *Registrar) uninstall() error {
	if err := r.store.Remove(r.cfg.Scheme); err != nil {
		return fmt.Errorf("urlproto: remove %s: %w", r.cfg.Scheme, err)
	}
	if err := r.store.Sync(); err != nil {
		return fmt.Errorf("urlproto: sync: %w", err)
	}
	return nil
}

// Installed reports whether the scheme marker exists, for stores that can
// read back.
func (r *Registrar) Installed() (bool, error) {
	if r.cfg.Scheme == "" {
		return false, nil
	}
	reader, ok := r.store.(settings.Reader)
	if !ok {
		return false, fmt.Errorf("urlproto: store %T cannot read values", r.store)
	}
	_, found, err := reader.Value(r.cfg.Scheme + "/" + keyURLProtocol)
	return found, err
}

// Close removes the filter from the host loop, then releases it.
func (r *Registrar) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.host.Remove(r.filter)
	return r.filter.Close()
}

// ParseCommand turns a command into a URL. Text that does not parse still
// yields a value, carried in Opaque.
func ParseCommand(command string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(command))
	if err != nil {
		return &url.URL{Opaque: command}, false
	}
	return u, true
}

func (r *Registrar) onCommand(command string) {
	u, parsed := ParseCommand(command)
	observability.RecordActivation(r.cfg.Scheme, parsed)
	level := zerolog.InfoLevel
	if !parsed {
		level = zerolog.WarnLevel
	}
	r.logger.WithLevel(level).Str("url", u.String()).Bool("parsed", parsed).Msg("activate")
	for _, fn := range r.listeners {
		fn(u)
	}
}
