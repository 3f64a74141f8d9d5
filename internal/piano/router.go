// Package piano routes incoming MIDI messages to the held-note tracker, the
// registered-note store and the beep, and computes how each key is drawn.
package piano

import (
	"fmt"

	"github.com/icco/midireg/internal/notes"
	"github.com/icco/midireg/internal/registry"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
)

const (
	labelStartRegistration = "Start Registration"
	labelStopRegistration  = "Stop Registration"
)

// Status bytes routed by default: note-on and note-off on the first channel.
const (
	statusNoteOn  = 0x90
	statusNoteOff = 0x80
)

// SoundPlayer plays the feedback beep from its start.
type SoundPlayer interface {
	Play()
}

// Display is everything the router draws to.
type Display interface {
	KeyDisplay
	registry.Display
	ShowRegistration(label string)
}

// EventKind classifies a routed message.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventNoteOn
	EventNoteOff
)

// Event describes what a single message did.
type Event struct {
	Kind       EventKind
	Channel    uint8
	Note       int
	Velocity   uint8
	Registered bool // note was newly registered
	Beeped     bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventNoteOn:
		s := fmt.Sprintf("Note On:  Ch%d %-4s vel:%d", e.Channel+1, notes.Name(e.Note), e.Velocity)
		if e.Registered {
			s += " (registered)"
		}
		if e.Beeped {
			s += " (beep)"
		}
		return s
	case EventNoteOff:
		return fmt.Sprintf("Note Off: Ch%d %-4s", e.Channel+1, notes.Name(e.Note))
	default:
		return ""
	}
}

// Options configure a Router.
type Options struct {
	Keyboard *Keyboard // nil means DefaultKeyboard
	Beep     bool      // initial state of the beep checkbox
	Log      logrus.FieldLogger

	// AnyChannel routes note messages from all 16 channels and reads a
	// note-on with velocity 0 as a note-off. By default only status 0x90
	// and 0x80 are routed, and every 0x90 is a note-on.
	AnyChannel bool
}

// Router owns the application state. It is not safe for concurrent use;
// callers feed it from a single event loop.
type Router struct {
	keyboard    Keyboard
	held        Tracker
	registry    *registry.Store
	sound       SoundPlayer
	display     Display
	registering bool
	beep        bool
	anyChannel  bool
	log         logrus.FieldLogger
}

// NewRouter wires the store, sound and display together and draws the
// initial state. sound and display may be nil.
func NewRouter(reg *registry.Store, sound SoundPlayer, display Display, opts Options) *Router {
	if sound == nil {
		sound = Silent{}
	}
	if display == nil {
		display = nopDisplay{}
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	kb := DefaultKeyboard
	if opts.Keyboard != nil {
		kb = *opts.Keyboard
	}

	r := &Router{
		keyboard:   kb,
		registry:   reg,
		sound:      sound,
		display:    display,
		beep:       opts.Beep,
		anyChannel: opts.AnyChannel,
		log:        opts.Log.WithField("component", "router"),
	}
	reg.SetDisplay(display)
	display.ShowRegistration(r.RegistrationLabel())
	r.Render()
	return r
}

// HandleMessage routes one raw MIDI message. Status 0x90 is a note-on and
// 0x80 a note-off; anything else, including short messages and data bytes
// above 0x7F, is ignored. Keys are redrawn after every message.
func (r *Router) HandleMessage(raw []byte) Event {
	ev := r.route(raw)
	r.Render()
	return ev
}

func (r *Router) route(raw []byte) Event {
	if len(raw) < 3 {
		r.log.WithField("bytes", raw).Debug("ignoring short message")
		return Event{}
	}
	if raw[1] > 0x7F || raw[2] > 0x7F {
		r.log.WithField("bytes", raw).Debug("ignoring malformed data bytes")
		return Event{}
	}
	if r.anyChannel {
		return r.routeAnyChannel(midi.Message(raw))
	}

	switch raw[0] {
	case statusNoteOn:
		return r.noteOn(0, int(raw[1]), raw[2])
	case statusNoteOff:
		r.held.NoteOff(int(raw[1]))
		return Event{Kind: EventNoteOff, Note: int(raw[1])}
	}
	return Event{}
}

func (r *Router) routeAnyChannel(msg midi.Message) Event {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return r.noteOn(ch, int(key), vel)
	case msg.GetNoteEnd(&ch, &key):
		r.held.NoteOff(int(key))
		return Event{Kind: EventNoteOff, Channel: ch, Note: int(key)}
	}
	return Event{}
}

func (r *Router) noteOn(ch uint8, note int, vel uint8) Event {
	ev := Event{Kind: EventNoteOn, Channel: ch, Note: note, Velocity: vel}
	r.held.NoteOn(note)

	if r.registering {
		ev.Registered = r.registry.Add(note)
		return ev
	}
	if !r.registry.Contains(note) && r.beep {
		r.sound.Play()
		ev.Beeped = true
	}
	return ev
}

// NoteOn is shorthand for a note-on message on the first channel.
func (r *Router) NoteOn(note int) Event {
	return r.HandleMessage(midi.NoteOn(0, uint8(note), 100)) //nolint:gosec // callers pass 0..127
}

// NoteOff is shorthand for a note-off message on the first channel.
func (r *Router) NoteOff(note int) Event {
	return r.HandleMessage(midi.NoteOff(0, uint8(note))) //nolint:gosec // callers pass 0..127
}

// Render redraws every key from the held and registered notes.
func (r *Router) Render() {
	r.keyboard.Render(r.display, r.held.Notes(), r.registry)
}

// ToggleRegistration flips registration mode and returns the new state.
func (r *Router) ToggleRegistration() bool {
	r.registering = !r.registering
	r.display.ShowRegistration(r.RegistrationLabel())
	r.log.WithField("registering", r.registering).Info("registration mode toggled")
	return r.registering
}

func (r *Router) Registering() bool {
	return r.registering
}

// RegistrationLabel is the text of the registration button.
func (r *Router) RegistrationLabel() string {
	if r.registering {
		return labelStopRegistration
	}
	return labelStartRegistration
}

// SetBeep sets the beep checkbox.
func (r *Router) SetBeep(on bool) {
	r.beep = on
}

func (r *Router) ToggleBeep() bool {
	r.beep = !r.beep
	return r.beep
}

func (r *Router) Beep() bool {
	return r.beep
}

// ClearRegistered forgets every registered note and redraws the keys.
func (r *Router) ClearRegistered() {
	r.registry.Clear()
	r.log.Info("registered notes cleared")
	r.Render()
}

// Held returns the notes currently held down.
func (r *Router) Held() []int {
	return r.held.Notes()
}

// ReleaseAll drops every held note, e.g. when the input goes away.
func (r *Router) ReleaseAll() {
	r.held.Reset()
	r.Render()
}

func (r *Router) Keyboard() Keyboard {
	return r.keyboard
}

func (r *Router) Registry() *registry.Store {
	return r.registry
}

// Silent is a SoundPlayer that never plays.
type Silent struct{}

func (Silent) Play() {}

type nopDisplay struct{}

func (nopDisplay) SetKeyState(int, KeyState) {}
func (nopDisplay) ShowRegistered(string)     {}
func (nopDisplay) ShowRegistration(string)   {}
