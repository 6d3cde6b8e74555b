//go:build windows

package main

import (
	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/danmuck/ddeurl/internal/protocol/dde/win32"
	"github.com/danmuck/ddeurl/internal/settings"
)

const defaultStoreKind = storeRegistry

func nativeCapabilities() (atom.Table, dde.Replier, dde.Memory) {
	return win32.SystemTable{}, win32.Replier{}, win32.Memory{}
}

func registryStore() (settings.Store, error) {
	return settings.NewUserClassesStore(), nil
}
