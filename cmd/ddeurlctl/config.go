package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/danmuck/ddeurl/internal/urlproto"
)

const (
	storeRegistry = "registry"
	storeFile     = "file"
	storeMemory   = "memory"
)

type appConfig struct {
	Registrar   urlproto.Config
	LaunchPath  string
	Store       string
	StorePath   string
	MetricsAddr string
}

type fileConfig struct {
	Scheme         string `toml:"scheme"`
	Application    string `toml:"application"`
	Topic          string `toml:"topic"`
	LaunchPath     string `toml:"launch_path"`
	Store          string `toml:"store"`
	StorePath      string `toml:"store_path"`
	StrictSessions bool   `toml:"strict_sessions"`
	Encoding       string `toml:"encoding"`
	MetricsAddr    string `toml:"metrics_addr"`
}

func defaultAppConfig() appConfig {
	return appConfig{
		Registrar: urlproto.Config{
			Scheme:   "dde4qt",
			Topic:    urlproto.DefaultTopic,
			Encoding: dde.EncodingUTF16,
		},
		Store:     defaultStoreKind,
		StorePath: defaultStorePath(),
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ddeurl", "classes.toml")
}

func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load ddeurl config: %w", err)
	}

	if meta.IsDefined("scheme") {
		cfg.Registrar.Scheme = strings.TrimSpace(raw.Scheme)
	}

	if meta.IsDefined("application") {
		cfg.Registrar.Application = strings.TrimSpace(raw.Application)
	}

	if meta.IsDefined("topic") {
		if topic := strings.TrimSpace(raw.Topic); topic != "" {
			cfg.Registrar.Topic = topic
		}
	}

	if meta.IsDefined("launch_path") {
		cfg.LaunchPath = strings.TrimSpace(raw.LaunchPath)
	}

	if meta.IsDefined("store") {
		kind, err := parseStoreKind(raw.Store)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Store = kind
	}

	if meta.IsDefined("store_path") {
		cfg.StorePath = strings.TrimSpace(raw.StorePath)
	}

	if meta.IsDefined("strict_sessions") {
		cfg.Registrar.StrictSessions = raw.StrictSessions
	}

	if meta.IsDefined("encoding") {
		enc, err := dde.ParseEncoding(raw.Encoding)
		if err != nil {
			return appConfig{}, fmt.Errorf("parse encoding: %w", err)
		}
		cfg.Registrar.Encoding = enc
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	return cfg, nil
}

func parseStoreKind(raw string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case storeRegistry, storeFile, storeMemory:
		return v, nil
	default:
		return "", fmt.Errorf("parse store: unknown store %q", raw)
	}
}
