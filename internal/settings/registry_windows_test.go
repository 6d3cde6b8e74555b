//go:build windows

package settings

import (
	"testing"

	"github.com/danmuck/ddeurl/internal/testutil/testlog"
	"golang.org/x/sys/windows/registry"
)

func TestRegistryStoreLocate(t *testing.T) {
	testlog.Start(t)
	s := NewRegistryStore(registry.CURRENT_USER, ClassesRoot)
	cases := []struct {
		path, key, name string
	}{
		{"dde4qt/URL Protocol", `SOFTWARE\Classes\dde4qt`, "URL Protocol"},
		{"dde4qt/shell/open/command", `SOFTWARE\Classes\dde4qt\shell\open\command`, ""},
		{"dde4qt/shell/open/ddeexec/topic", `SOFTWARE\Classes\dde4qt\shell\open\ddeexec\topic`, ""},
		{"dde4qt", `SOFTWARE\Classes\dde4qt`, ""},
	}
	for _, tc := range cases {
		key, name, err := s.locate(tc.path)
		if err != nil {
			t.Fatalf("locate %q: %v", tc.path, err)
		}
		if key != tc.key || name != tc.name {
			t.Fatalf("locate %q = %q,%q want %q,%q", tc.path, key, name, tc.key, tc.name)
		}
	}
}
