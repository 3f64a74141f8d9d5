// Package tui is the terminal front end: a keyboard that lights up with the
// held notes, the registered-note list, and the beep and registration controls.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/icco/midireg/internal/midisource"
	"github.com/icco/midireg/internal/piano"
	"github.com/icco/midireg/internal/registry"
	"github.com/sirupsen/logrus"
)

const maxMessageHistory = 20

// Connector opens the MIDI source. It runs off the UI loop.
type Connector func() (midisource.Source, error)

// Options configure the model.
type Options struct {
	Title      string
	Keyboard   *piano.Keyboard
	Beep       bool
	AnyChannel bool
	Log        logrus.FieldLogger
}

// Model is the bubbletea model. It is also the router's display, so every
// router call happens inside Update.
type Model struct {
	title     string
	router    *piano.Router
	connect   Connector
	source    midisource.Source
	stopFunc  func()
	send      func(tea.Msg)
	log       logrus.FieldLogger
	connected bool

	keys              map[int]piano.KeyState
	registered        string
	registrationLabel string
	status            string
	err               error

	messageHistory []string
	messageCount   int
	width          int
	height         int
}

// midiMsg carries one raw MIDI message from the source goroutine.
type midiMsg []byte

type connectedMsg struct {
	source midisource.Source
	err    error
}

type sourceDoneMsg struct{}

// New builds the model and the router that draws into it.
func New(reg *registry.Store, sound piano.SoundPlayer, connect Connector, opts Options) *Model {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Title == "" {
		opts.Title = "MIDIREG"
	}

	m := &Model{
		title:          opts.Title,
		connect:        connect,
		log:            opts.Log.WithField("component", "tui"),
		keys:           make(map[int]piano.KeyState),
		status:         "Connecting...",
		messageHistory: make([]string, 0, maxMessageHistory),
	}
	m.router = piano.NewRouter(reg, sound, m, piano.Options{
		Keyboard:   opts.Keyboard,
		Beep:       opts.Beep,
		AnyChannel: opts.AnyChannel,
		Log:        opts.Log,
	})
	return m
}

// SetProgram lets source callbacks reach the UI loop.
func (m *Model) SetProgram(p *tea.Program) {
	m.send = p.Send
}

// Router exposes the router, mainly for tests.
func (m *Model) Router() *piano.Router {
	return m.router
}

// SetKeyState implements piano.KeyDisplay.
func (m *Model) SetKeyState(key int, state piano.KeyState) {
	m.keys[key] = state
}

// ShowRegistered implements registry.Display.
func (m *Model) ShowRegistered(text string) {
	m.registered = text
}

// ShowRegistration implements piano.Display.
func (m *Model) ShowRegistration(label string) {
	m.registrationLabel = label
}

func (m *Model) Init() tea.Cmd {
	return m.openSource
}

func (m *Model) openSource() tea.Msg {
	src, err := m.connect()
	return connectedMsg{source: src, err: err}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		if msg.err != nil {
			m.status = midisource.StatusUnavailable
			m.err = msg.err
			m.log.WithError(msg.err).Warn("MIDI input unavailable")
			return m, nil
		}
		m.source = msg.source
		m.listen()
		return m, nil

	case midiMsg:
		ev := m.router.HandleMessage(msg)
		m.messageCount++
		m.record(ev)
		return m, nil

	case sourceDoneMsg:
		m.status = "Replay finished"
		m.router.ReleaseAll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, m.cleanup
		case "b", " ":
			on := m.router.ToggleBeep()
			m.log.WithField("beep", on).Info("beep toggled")
		case "r":
			m.router.ToggleRegistration()
		case "c":
			m.router.ClearRegistered()
		}
	}

	return m, nil
}

func (m *Model) listen() {
	stop, err := m.source.Listen(func(data []byte) {
		if m.send != nil {
			m.send(midiMsg(data))
		}
	})
	if err != nil {
		m.status = midisource.StatusUnavailable
		m.err = err
		m.log.WithError(err).Warn("failed to listen")
		return
	}

	m.stopFunc = stop
	m.connected = true
	m.status = midisource.StatusConnected
	m.log.WithField("source", m.source.String()).Info("listening")

	if d, ok := m.source.(interface{ Done() <-chan struct{} }); ok {
		go func() {
			<-d.Done()
			if m.send != nil {
				m.send(sourceDoneMsg{})
			}
		}()
	}
}

func (m *Model) record(ev piano.Event) {
	line := ev.String()
	if line == "" {
		return
	}
	m.messageHistory = append([]string{line}, m.messageHistory...)
	if len(m.messageHistory) > maxMessageHistory {
		m.messageHistory = m.messageHistory[:maxMessageHistory]
	}
}

func (m *Model) cleanup() tea.Msg {
	if m.stopFunc != nil {
		m.stopFunc()
	}
	if m.source != nil {
		if err := m.source.Close(); err != nil {
			m.log.WithError(err).Warn("failed to close MIDI source")
		}
	}
	return tea.Quit()
}

func (m *Model) sourceName() string {
	if m.source == nil {
		return "-"
	}
	return m.source.String()
}
