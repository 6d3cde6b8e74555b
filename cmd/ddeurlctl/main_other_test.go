//go:build !windows

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/ddeurl/internal/hostloop"
	"github.com/danmuck/ddeurl/internal/settings"
	"github.com/danmuck/ddeurl/internal/testutil/testlog"
)

// splitCommandLine tokenizes a shell open command: double quotes group,
// \" is a literal quote.
func splitCommandLine(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
			started = true
		case c == ' ' && !quoted:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteByte(c)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	return args
}

func TestInstalledLaunchCommandStartsServer(t *testing.T) {
	testlog.Start(t)
	store := filepath.Join(t.TempDir(), "classes.toml")
	if _, err := runCLI(t, "install", "--store", "file", "--store-path", store, "--scheme", "dde4qt", "--application", "viewer"); err != nil {
		t.Fatalf("install: %v", err)
	}

	fs, err := settings.OpenFileStore(store)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	command, ok, err := fs.Value("dde4qt/shell/open/command")
	if err != nil || !ok {
		t.Fatalf("launch command not stored: ok=%v err=%v", ok, err)
	}

	args := splitCommandLine(command)
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("executable: %v", err)
	}
	if len(args) < 2 || args[0] != exe || args[1] != "listen" {
		t.Fatalf("launch command should start listen on this executable: %q", command)
	}
	if !strings.Contains(command, "--store-path "+store) || !strings.Contains(command, "--application viewer") {
		t.Fatalf("launch command should carry the install settings: %q", command)
	}

	// the shell runs the command without a URL; off Windows it gets as far
	// as the message pump
	_, err = runCLI(t, args[1:]...)
	if !errors.Is(err, hostloop.ErrUnsupported) {
		t.Fatalf("expected the launched listen to reach the pump, got %v", err)
	}
}

func TestSplitCommandLine(t *testing.T) {
	testlog.Start(t)
	got := splitCommandLine(`"C:\My App\app.exe" listen --topic "a \"b\"" --scheme ""`)
	want := []string{`C:\My App\app.exe`, "listen", "--topic", `a "b"`, "--scheme", ""}
	if len(got) != len(want) {
		t.Fatalf("got %q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}
