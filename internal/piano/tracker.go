package piano

import "github.com/icco/midireg/internal/notes"

// Tracker holds the keys that are physically held down.
type Tracker struct {
	held notes.Set
}

func (t *Tracker) NoteOn(note int) {
	t.held.Add(note)
}

func (t *Tracker) NoteOff(note int) {
	t.held.Remove(note)
}

// Notes returns the held notes in ascending order.
func (t *Tracker) Notes() []int {
	return t.held.Sorted()
}

func (t *Tracker) Len() int {
	return t.held.Len()
}

func (t *Tracker) Reset() {
	t.held.Clear()
}
