package tui

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/icco/midireg/internal/midisource"
	"github.com/icco/midireg/internal/piano"
	"github.com/icco/midireg/internal/registry"
	"github.com/icco/midireg/internal/store"
	"github.com/sirupsen/logrus"
)

type fakeSource struct {
	fn      func([]byte)
	stopped bool
	closed  bool
}

func (s *fakeSource) Listen(fn func([]byte)) (func(), error) {
	s.fn = fn
	return func() { s.stopped = true }, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSource) String() string { return "Fake Keyboard" }

type countingPlayer struct{ plays int }

func (p *countingPlayer) Play() { p.plays++ }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestModel(t *testing.T, src midisource.Source, connectErr error, registered ...int) (*Model, *countingPlayer, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if len(registered) > 0 {
		_ = mem.Set(registry.EntryName, registry.Encode(registered))
	}
	reg := registry.New(mem, nil, quietLogger())
	reg.Load()

	player := &countingPlayer{}
	m := New(reg, player, func() (midisource.Source, error) {
		return src, connectErr
	}, Options{Beep: true, Log: quietLogger()})
	return m, player, mem
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConnect(t *testing.T) {
	src := &fakeSource{}
	m, _, _ := newTestModel(t, src, nil)

	m.Update(m.Init()())
	if !m.connected || m.status != midisource.StatusConnected {
		t.Errorf("status = %q, connected = %v", m.status, m.connected)
	}
	if src.fn == nil {
		t.Fatal("source not listened to")
	}

	view := m.View()
	for _, want := range []string{"MIDI connected", "Fake Keyboard", "Start Registration", "[x]", "(none)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestConnectFailure(t *testing.T) {
	m, _, _ := newTestModel(t, nil, errors.New("no MIDI inputs found"))

	m.Update(m.Init()())
	if m.connected {
		t.Error("connected despite error")
	}
	view := m.View()
	if !strings.Contains(view, "MIDI not available") || !strings.Contains(view, "no MIDI inputs found") {
		t.Errorf("view does not report failure:\n%s", view)
	}

	// The rest of the UI keeps working without input.
	m.Update(key("r"))
	if !strings.Contains(m.View(), "Stop Registration") {
		t.Error("registration toggle broken without MIDI")
	}
}

func TestNoteOnBeepsAndHighlights(t *testing.T) {
	m, player, _ := newTestModel(t, &fakeSource{}, nil)

	m.Update(midiMsg{0x90, 64, 100})
	if player.plays != 1 {
		t.Errorf("plays = %d, want 1", player.plays)
	}
	if m.keys[64] != piano.KeyHighlight || m.keys[52] != piano.KeyHighlight {
		t.Errorf("key states = %v / %v", m.keys[64], m.keys[52])
	}
	if m.messageCount != 1 || !strings.Contains(m.messageHistory[0], "E4") {
		t.Errorf("log = %v", m.messageHistory)
	}

	m.Update(midiMsg{0x80, 64, 0})
	if m.keys[64] != piano.KeyIdle {
		t.Errorf("key 64 = %v after release", m.keys[64])
	}
}

func TestRegistrationFlow(t *testing.T) {
	m, player, mem := newTestModel(t, &fakeSource{}, nil)

	m.Update(key("r"))
	m.Update(midiMsg{0x90, 67, 100})
	if player.plays != 0 {
		t.Errorf("plays = %d in registration mode", player.plays)
	}
	if !strings.Contains(m.View(), "G4") || m.registered != "G4" {
		t.Errorf("registered text = %q", m.registered)
	}
	if raw, _ := mem.Get(registry.EntryName); raw != "[67]" {
		t.Errorf("persisted = %q", raw)
	}
	if m.keys[67] != piano.KeyRegistered {
		t.Errorf("key 67 = %v", m.keys[67])
	}

	m.Update(key("r"))
	m.Update(midiMsg{0x80, 67, 0})
	m.Update(midiMsg{0x90, 67, 100})
	if player.plays != 0 {
		t.Error("registered note beeped")
	}

	m.Update(key("c"))
	if m.registered != "" || m.keys[67] != piano.KeyHighlight {
		t.Errorf("after clear: text %q key %v", m.registered, m.keys[67])
	}
	if _, ok := mem.Get(registry.EntryName); ok {
		t.Error("persisted entry survived clear")
	}
}

func TestBeepCheckbox(t *testing.T) {
	m, player, _ := newTestModel(t, &fakeSource{}, nil)

	m.Update(key("b"))
	if !strings.Contains(m.View(), "[ ]") {
		t.Error("checkbox still checked")
	}
	m.Update(midiMsg{0x90, 60, 100})
	if player.plays != 0 {
		t.Errorf("plays = %d with beep off", player.plays)
	}
}

func TestLoadedNotesShown(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeSource{}, nil, 72, 60)
	if !strings.Contains(m.View(), "C4 C5") {
		t.Errorf("view does not list registered notes:\n%s", m.View())
	}
}

func TestSourceDone(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeSource{}, nil)
	m.Update(midiMsg{0x90, 60, 100})
	m.Update(sourceDoneMsg{})
	if m.status != "Replay finished" || m.keys[60] != piano.KeyIdle {
		t.Errorf("status %q key %v", m.status, m.keys[60])
	}
}

func TestQuitCleansUp(t *testing.T) {
	src := &fakeSource{}
	m, _, _ := newTestModel(t, src, nil)
	m.Update(m.Init()())

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("cleanup did not quit")
	}
	if !src.stopped || !src.closed {
		t.Errorf("stopped=%v closed=%v", src.stopped, src.closed)
	}
}

func TestMessageHistoryBounded(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeSource{}, nil)
	for i := 0; i < maxMessageHistory+5; i++ {
		m.Update(midiMsg{0x90, 60, 100})
	}
	m.Update(midiMsg{0xB0, 64, 127})
	if len(m.messageHistory) != maxMessageHistory {
		t.Errorf("history length = %d", len(m.messageHistory))
	}
	if m.messageCount != maxMessageHistory+6 {
		t.Errorf("messageCount = %d", m.messageCount)
	}
}

func TestRenderKeyboard(t *testing.T) {
	kb := piano.Keyboard{Low: 48, High: 71}
	out := renderKeyboard(kb, map[int]piano.KeyState{})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if n := strings.Count(lines[1], "█"); n != 14 {
		t.Errorf("white keys = %d, want 14", n)
	}
	if n := strings.Count(lines[0], "█"); n != 10 {
		t.Errorf("black keys = %d, want 10", n)
	}
	if !strings.Contains(lines[2], "C3") || !strings.Contains(lines[2], "C4") {
		t.Errorf("labels = %q", lines[2])
	}

	// A range starting on a black key still draws it.
	out = renderKeyboard(piano.Keyboard{Low: 49, High: 52}, map[int]piano.KeyState{})
	lines = strings.Split(out, "\n")
	if n := strings.Count(lines[0], "█"); n != 2 {
		t.Errorf("black keys = %d, want 2 (C# and D#)", n)
	}
}

func TestChannelOption(t *testing.T) {
	m, player, _ := newTestModel(t, &fakeSource{}, nil)
	m.Update(midiMsg{0x93, 60, 100})
	if player.plays != 0 || m.keys[60] != piano.KeyIdle {
		t.Errorf("channel 4 note routed by default: plays = %d, key = %v", player.plays, m.keys[60])
	}

	reg := registry.New(store.NewMemory(), nil, quietLogger())
	player = &countingPlayer{}
	m = New(reg, player, func() (midisource.Source, error) {
		return &fakeSource{}, nil
	}, Options{Beep: true, AnyChannel: true, Log: quietLogger()})
	m.Update(midiMsg{0x93, 60, 100})
	if player.plays != 1 || m.keys[60] != piano.KeyHighlight {
		t.Errorf("any-channel: plays = %d, key = %v", player.plays, m.keys[60])
	}
}
