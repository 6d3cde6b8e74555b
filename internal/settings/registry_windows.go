//go:build windows

package settings

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// ClassesRoot is the per-user location of URL scheme registrations.
const ClassesRoot = `SOFTWARE\Classes`

// DefaultValueNames are leaves written as named values on their parent key.
var DefaultValueNames = []string{"URL Protocol"}

// RegistryStore maps slash paths onto registry keys below a root. A path
// whose leaf is one of the configured value names is written as that named
// value on the parent key; any other path is written as the default value of
// the key at that path.
type RegistryStore struct {
	root       registry.Key
	base       string
	valueNames map[string]bool
}

func NewRegistryStore(root registry.Key, base string, valueNames ...string) *RegistryStore {
	if len(valueNames) == 0 {
		valueNames = DefaultValueNames
	}
	names := make(map[string]bool, len(valueNames))
	for _, n := range valueNames {
		names[strings.ToLower(n)] = true
	}
	return &RegistryStore{root: root, base: strings.Trim(base, `\`), valueNames: names}
}

// NewUserClassesStore is rooted at HKEY_CURRENT_USER\SOFTWARE\Classes.
func NewUserClassesStore() *RegistryStore {
	return NewRegistryStore(registry.CURRENT_USER, ClassesRoot)
}

func (s *RegistryStore) SetValue(path, value string) error {
	keyPath, name, err := s.locate(path)
	if err != nil {
		return err
	}
	k, _, err := registry.CreateKey(s.root, keyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("settings: create %s: %w", keyPath, err)
	}
	defer k.Close()
	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("settings: set %s[%q]: %w", keyPath, name, err)
	}
	return nil
}

func (s *RegistryStore) Remove(path string) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	keyPath := s.full(clean)
	if err := deleteTree(s.root, keyPath); err != nil {
		return fmt.Errorf("settings: remove %s: %w", keyPath, err)
	}
	return nil
}

// Sync is a no-op: registry writes are visible as soon as they return.
func (s *RegistryStore) Sync() error {
	return nil
}

func (s *RegistryStore) Value(path string) (string, bool, error) {
	keyPath, name, err := s.locate(path)
	if err != nil {
		return "", false, err
	}
	k, err := registry.OpenKey(s.root, keyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	defer k.Close()
	v, _, err := k.GetStringValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Keys is not supported for the registry: the root is shared by every
// installed application.
func (s *RegistryStore) Keys() ([]string, error) {
	return nil, fmt.Errorf("settings: registry store cannot enumerate %s", s.base)
}

func (s *RegistryStore) locate(path string) (keyPath, name string, err error) {
	clean, err := CleanPath(path)
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(clean, "/")
	leaf := parts[len(parts)-1]
	if len(parts) > 1 && s.valueNames[strings.ToLower(leaf)] {
		return s.full(strings.Join(parts[:len(parts)-1], "/")), leaf, nil
	}
	return s.full(clean), "", nil
}

func (s *RegistryStore) full(clean string) string {
	rel := strings.ReplaceAll(clean, "/", `\`)
	if s.base == "" {
		return rel
	}
	return s.base + `\` + rel
}

func deleteTree(root registry.Key, path string) error {
	k, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return err
	}
	children, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := deleteTree(root, path+`\`+child); err != nil {
			return err
		}
	}
	return registry.DeleteKey(root, path)
}
