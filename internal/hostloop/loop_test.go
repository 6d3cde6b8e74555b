package hostloop

import (
	"testing"

	"github.com/danmuck/ddeurl/internal/atom"
	"github.com/danmuck/ddeurl/internal/protocol/dde"
	"github.com/danmuck/ddeurl/internal/testutil/ddefake"
	"github.com/danmuck/ddeurl/internal/testutil/testlog"
)

type recordingFilter struct {
	name   string
	handle bool
	calls  *[]string
}

func (f *recordingFilter) HandleMessage(msg dde.Message) bool {
	*f.calls = append(*f.calls, f.name)
	return f.handle
}

func TestDispatchNewestFirstAndShortCircuit(t *testing.T) {
	l := New(testlog.Logger(t))
	var calls []string
	first := &recordingFilter{name: "first", calls: &calls}
	second := &recordingFilter{name: "second", handle: true, calls: &calls}
	l.Install(first)
	l.Install(second)

	if !l.Dispatch(dde.NewTerminate(1, 2)) {
		t.Fatalf("expected handled")
	}
	if len(calls) != 1 || calls[0] != "second" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestDispatchFallsThroughWhenUnhandled(t *testing.T) {
	l := New(testlog.Logger(t))
	var calls []string
	l.Install(&recordingFilter{name: "a", calls: &calls})
	l.Install(&recordingFilter{name: "b", calls: &calls})

	if l.Dispatch(dde.Message{Kind: dde.KindOther}) {
		t.Fatalf("expected unhandled")
	}
	if len(calls) != 2 || calls[0] != "b" || calls[1] != "a" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestInstallIdempotentAndRemove(t *testing.T) {
	l := New(testlog.Logger(t))
	var calls []string
	f := &recordingFilter{name: "f", calls: &calls}
	l.Install(f)
	l.Install(f)
	l.Install(nil)
	if l.Len() != 1 {
		t.Fatalf("unexpected len=%d", l.Len())
	}
	l.Remove(f)
	l.Remove(f)
	if l.Len() != 0 {
		t.Fatalf("unexpected len=%d", l.Len())
	}
	l.Dispatch(dde.Message{Kind: dde.KindOther})
	if len(calls) != 0 {
		t.Fatalf("removed filter must not be called: %v", calls)
	}
}

func TestPumpConfigDefaults(t *testing.T) {
	testlog.Start(t)
	cfg := PumpConfig{Title: "custom"}.withDefaults()
	if cfg.ClassName != "ddeurl.server" || cfg.Title != "custom" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestWindowProcOffersEachMessageOnce(t *testing.T) {
	l := New(testlog.Logger(t))
	var calls []string
	l.Install(&recordingFilter{name: "f", handle: true, calls: &calls})

	result, handled := l.WindowProc(dde.NewInitiate(1, 2, 0xC001, 0xC002))
	if !handled || result != 0 {
		t.Fatalf("expected handled with result 0, got handled=%v result=%d", handled, result)
	}
	if len(calls) != 1 {
		t.Fatalf("message should reach the chain once: %v", calls)
	}
}

func TestWindowProcFallsBackWhenUnhandled(t *testing.T) {
	l := New(testlog.Logger(t))
	var calls []string
	l.Install(&recordingFilter{name: "f", calls: &calls})

	if _, handled := l.WindowProc(dde.Message{Kind: dde.KindOther, Window: 1}); handled {
		t.Fatalf("unhandled message must go to the default procedure")
	}
	if len(calls) != 1 {
		t.Fatalf("filter should still see the message: %v", calls)
	}
}

func TestWindowProcDrivesConversation(t *testing.T) {
	logger := testlog.Logger(t)
	table := atom.NewMemoryTable(0)
	rep := &ddefake.Replier{}
	mem := ddefake.NewMemory()
	f, err := dde.NewFilter(table, dde.Identity{Application: "dde4qt", Topic: "System"}, rep, mem, dde.WithLogger(logger))
	if err != nil {
		t.Fatalf("new filter: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	var commands []string
	_ = f.OnCommand(func(cmd string) { commands = append(commands, cmd) })

	l := New(logger)
	l.Install(f)
	const window, peer dde.HWND = 0x10, 0x20
	app, _ := table.Add("dde4qt")
	topic, _ := table.Add("System")

	if _, handled := l.WindowProc(dde.NewInitiate(window, peer, app, topic)); !handled {
		t.Fatalf("sent initiate should be claimed by the filter")
	}
	if _, handled := l.WindowProc(dde.NewExecute(window, peer, 0x1, mem.PutUTF16("dde4qt:red"))); !handled {
		t.Fatalf("execute should be claimed")
	}
	if _, handled := l.WindowProc(dde.NewTerminate(window, peer)); handled {
		t.Fatalf("terminate goes on to the default procedure")
	}

	sent := rep.Sent()
	if len(sent) != 3 {
		t.Fatalf("expected initiate ack, execute ack and terminate: %+v", sent)
	}
	if sent[0].Msg != dde.WMAck || sent[0].Posted || sent[0].App != app {
		t.Fatalf("unexpected initiate ack: %+v", sent[0])
	}
	if !sent[1].Status.Positive() || sent[2].Msg != dde.WMTerminate {
		t.Fatalf("unexpected replies: %+v", sent[1:])
	}
	if len(commands) != 1 || commands[0] != "dde4qt:red" {
		t.Fatalf("unexpected commands: %q", commands)
	}
}
