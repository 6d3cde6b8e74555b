package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/ddeurl/internal/testutil/testlog"
)

func TestCleanPath(t *testing.T) {
	testlog.Start(t)
	got, err := CleanPath(`/dde4qt\shell//open/`)
	if err != nil || got != "dde4qt/shell/open" {
		t.Fatalf("unexpected clean path %q err=%v", got, err)
	}
	if _, err := CleanPath("//"); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestMemoryStoreRemoveTakesSubtreeOnly(t *testing.T) {
	testlog.Start(t)
	s := NewMemoryStore()
	for _, kv := range [][2]string{
		{"dde4qt/URL Protocol", ""},
		{"dde4qt/shell/open/ddeexec", "%1"},
		{"dde4qt/shell/open/ddeexec/topic", "System"},
		{"dde4qtx/URL Protocol", ""},
		{"other", "keep"},
	} {
		if err := s.SetValue(kv[0], kv[1]); err != nil {
			t.Fatalf("set %s: %v", kv[0], err)
		}
	}
	if err := s.Remove("dde4qt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	keys, _ := s.Keys()
	if strings.Join(keys, ",") != "dde4qtx/URL Protocol,other" {
		t.Fatalf("unexpected keys after remove: %v", keys)
	}
	if err := s.Remove(""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestMemoryStoreValueAndNodeCoexist(t *testing.T) {
	testlog.Start(t)
	s := NewMemoryStore()
	_ = s.SetValue("a/b", "parent")
	_ = s.SetValue("a/b/c", "child")
	if v, ok, _ := s.Value("a/b"); !ok || v != "parent" {
		t.Fatalf("unexpected parent value %q ok=%v", v, ok)
	}
	if v, ok, _ := s.Value("a/b/c"); !ok || v != "child" {
		t.Fatalf("unexpected child value %q ok=%v", v, ok)
	}
	if _, ok, _ := s.Value("a"); ok {
		t.Fatalf("intermediate node should have no value")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "nested", "classes.toml")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SetValue("dde4qt/URL Protocol", ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetValue("dde4qt/shell/open/command", `"C:\app.exe" "%1"`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("nothing should be written before sync, stat err=%v", err)
	}
	if err := s.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, _ := reopened.Value("dde4qt/shell/open/command")
	if !ok || v != `"C:\app.exe" "%1"` {
		t.Fatalf("unexpected command %q ok=%v", v, ok)
	}
	if v, ok, _ := reopened.Value("dde4qt/URL Protocol"); !ok || v != "" {
		t.Fatalf("empty value should round-trip, got %q ok=%v", v, ok)
	}

	if err := reopened.Remove("dde4qt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := reopened.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	again, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if keys, _ := again.Keys(); len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("values = ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
