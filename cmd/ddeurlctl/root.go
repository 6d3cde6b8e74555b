package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/ddeurl/internal/hostloop"
	"github.com/danmuck/ddeurl/internal/logging"
	"github.com/danmuck/ddeurl/internal/settings"
	"github.com/danmuck/ddeurl/internal/urlproto"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootContext struct {
	cmd    *cobra.Command
	cfg    appConfig
	logger zerolog.Logger
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ddeurlctl",
		Short:         "Register a URL scheme and receive activations over DDE",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "TOML config file")
	flags.StringP("log-level", "l", "", "Log level (trace, debug, info, warn, error, or off)")
	flags.String("scheme", "", "URL scheme (overrides config)")
	flags.String("application", "", "DDE application name (overrides config)")
	flags.String("topic", "", "DDE topic name (overrides config)")
	flags.String("store", "", "Settings store: registry, file, or memory")
	flags.String("store-path", "", "Settings file for the file store")
	cmd.AddCommand(installCmd(), uninstallCmd(), showCmd(), listenCmd())
	return cmd
}

func applyRun(cmd *cobra.Command, fn func(*rootContext) error) *cobra.Command {
	if cmd.Args == nil {
		cmd.Args = cobra.NoArgs
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logging.ConfigureRuntime()
		flags := cmd.Root().PersistentFlags()
		if lvl, _ := flags.GetString("log-level"); lvl != "" && !logging.SetLevel(lvl) {
			return fmt.Errorf("unknown log level %q", lvl)
		}
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return fn(&rootContext{cmd: cmd, cfg: cfg, logger: logging.Component("ddeurlctl")})
	}
	return cmd
}

func resolveConfig(cmd *cobra.Command) (appConfig, error) {
	flags := cmd.Root().PersistentFlags()
	cfg := defaultAppConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := loadAppConfig(path)
		if err != nil {
			return appConfig{}, err
		}
		cfg = loaded
	}
	if flags.Changed("scheme") {
		cfg.Registrar.Scheme, _ = flags.GetString("scheme")
	}
	if v, _ := flags.GetString("application"); v != "" {
		cfg.Registrar.Application = v
	}
	if v, _ := flags.GetString("topic"); v != "" {
		cfg.Registrar.Topic = v
	}
	if v, _ := flags.GetString("store"); v != "" {
		kind, err := parseStoreKind(v)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Store = kind
	}
	if v, _ := flags.GetString("store-path"); v != "" {
		cfg.StorePath = v
	}
	return cfg, nil
}

func (c *rootContext) openStore() (settings.Store, error) {
	switch c.cfg.Store {
	case storeRegistry:
		return registryStore()
	case storeMemory:
		return settings.NewMemoryStore(), nil
	default:
		return settings.OpenFileStore(c.cfg.StorePath)
	}
}

type wiring struct {
	reg   *urlproto.Registrar
	loop  *hostloop.Loop
	store settings.Store
}

// wire builds a registrar over the native capabilities with its filter
// installed in a fresh loop.
func (c *rootContext) wire() (*wiring, error) {
	store, err := c.openStore()
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.cfg.Store, err)
	}
	names, replier, memory := nativeCapabilities()
	loop := hostloop.New(logging.Component("hostloop"))
	reg, err := urlproto.New(c.cfg.Registrar, urlproto.Deps{
		Names:   names,
		Replier: replier,
		Memory:  memory,
		Host:    loop,
		Store:   store,
		Logger:  logging.Component("urlproto"),
	})
	if err != nil {
		return nil, err
	}
	return &wiring{reg: reg, loop: loop, store: store}, nil
}

// launchPath is the shell open command for the scheme. By default it starts
// this executable's listen command with the settings of the current run.
func (c *rootContext) launchPath() (string, error) {
	if c.cfg.LaunchPath != "" {
		return c.cfg.LaunchPath, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	args, err := c.listenArgs()
	if err != nil {
		return "", err
	}
	return urlproto.LaunchCommand(exe, args...), nil
}

// listenArgs repeats the persistent flags given on this command line so the
// launched server uses the same scheme, identity and store.
func (c *rootContext) listenArgs() ([]string, error) {
	args := []string{"listen"}
	flags := c.cmd.Root().PersistentFlags()
	for _, name := range []string{"config", "scheme", "application", "topic", "store", "store-path"} {
		if !flags.Changed(name) {
			continue
		}
		v, _ := flags.GetString(name)
		if v != "" && (name == "config" || name == "store-path") {
			abs, err := filepath.Abs(v)
			if err != nil {
				return nil, fmt.Errorf("resolve --%s: %w", name, err)
			}
			v = abs
		}
		args = append(args, "--"+name, v)
	}
	return args, nil
}
