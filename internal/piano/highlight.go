package piano

import "github.com/icco/midireg/internal/notes"

// KeyState is how a keyboard key is drawn.
type KeyState int

const (
	// KeyIdle: no held note shares the key's pitch class.
	KeyIdle KeyState = iota
	// KeyHighlight: at least one held note of this pitch class is unregistered.
	KeyHighlight
	// KeyRegistered: every held note of this pitch class is registered.
	KeyRegistered
)

func (s KeyState) String() string {
	switch s {
	case KeyHighlight:
		return "highlight"
	case KeyRegistered:
		return "registered-highlight"
	default:
		return "idle"
	}
}

// KeyDisplay draws individual keys.
type KeyDisplay interface {
	SetKeyState(key int, state KeyState)
}

// Membership answers whether a note is registered.
type Membership interface {
	Contains(note int) bool
}

// StateFor computes the state of key given the held notes. Keys match held
// notes by pitch class, so one key lights up for the same note in any octave.
func StateFor(key int, held []int, registered Membership) KeyState {
	pc := notes.PitchClass(key)
	matched := false
	for _, n := range held {
		if notes.PitchClass(n) != pc {
			continue
		}
		matched = true
		if !registered.Contains(n) {
			return KeyHighlight
		}
	}
	if matched {
		return KeyRegistered
	}
	return KeyIdle
}

// Keyboard is the range of keys that is drawn.
type Keyboard struct {
	Low  int
	High int
}

// DefaultKeyboard spans C3 to B4.
var DefaultKeyboard = Keyboard{Low: 48, High: 71}

// Keys returns every note number on the keyboard, ascending.
func (k Keyboard) Keys() []int {
	if k.High < k.Low {
		return nil
	}
	keys := make([]int, 0, k.High-k.Low+1)
	for n := k.Low; n <= k.High; n++ {
		keys = append(keys, n)
	}
	return keys
}

// Render applies the state of every key on the keyboard to d.
func (k Keyboard) Render(d KeyDisplay, held []int, registered Membership) {
	for _, key := range k.Keys() {
		d.SetKeyState(key, StateFor(key, held, registered))
	}
}
