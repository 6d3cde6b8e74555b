// Package settings owns hierarchical key-value persistence.
//
// Paths are slash separated ("scheme/shell/open/command"). A path may hold a
// value and have children at the same time, as registry keys do.
package settings

import (
	"errors"
	"sort"
	"strings"
)

var ErrEmptyPath = errors.New("settings: empty path")

// Store is the write surface used to install and remove registrations.
type Store interface {
	SetValue(path, value string) error
	// Remove deletes path and everything below it.
	Remove(path string) error
	Sync() error
}

// Reader is implemented by stores that can read their values back.
type Reader interface {
	Value(path string) (string, bool, error)
	Keys() ([]string, error)
}

// CleanPath trims separators and empty segments.
func CleanPath(path string) (string, error) {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) == 0 {
		return "", ErrEmptyPath
	}
	return strings.Join(parts, "/"), nil
}

// under reports whether key is root or a descendant of root.
func under(key, root string) bool {
	return key == root || strings.HasPrefix(key, root+"/")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
