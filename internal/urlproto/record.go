package urlproto

import (
	"fmt"
	"strings"

	"github.com/danmuck/ddeurl/internal/settings"
)

const (
	keyURLProtocol = "URL Protocol"
	keyCommand     = "shell/open/command"
	keyDDEExec     = "shell/open/ddeexec"
	keyApplication = "shell/open/ddeexec/application"
	keyTopic       = "shell/open/ddeexec/topic"

	// ExecTemplate is the execute string the shell sends; %1 is the URL.
	ExecTemplate = "%1"
)

// Entry is one persisted key below the scheme.
type Entry struct {
	Path  string
	Value string
}

// Record is the full registration written for one scheme.
type Record struct {
	Scheme  string
	Entries []Entry
}

// NewRecord lays out the five keys that associate scheme with launchPath and
// the DDE (application, topic) identity.
func NewRecord(scheme, launchPath, application, topic string) Record {
	return Record{
		Scheme: scheme,
		Entries: []Entry{
			{Path: scheme + "/" + keyURLProtocol, Value: ""},
			{Path: scheme + "/" + keyCommand, Value: launchPath},
			{Path: scheme + "/" + keyDDEExec, Value: ExecTemplate},
			{Path: scheme + "/" + keyApplication, Value: application},
			{Path: scheme + "/" + keyTopic, Value: topic},
		},
	}
}

// Write stores every entry. It stops at the first failure without rolling
// back; entries are keyed, so a retry overwrites safely.
func (r Record) Write(store settings.Store) error {
	for _, e := range r.Entries {
		if err := store.SetValue(e.Path, e.Value); err != nil {
			return fmt.Errorf("urlproto: write %s: %w", e.Path, err)
		}
	}
	return nil
}

// LaunchCommand builds the shell open command that starts exe with args.
// The shell runs it only when no server answers the DDE conversation, then
// retries the conversation against the started process, so args should
// start the server rather than carry the URL.
func LaunchCommand(exe string, args ...string) string {
	var b strings.Builder
	b.WriteString(quoteArg(exe, true))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quoteArg(a, false))
	}
	return b.String()
}

func quoteArg(s string, always bool) string {
	if always || s == "" || strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
