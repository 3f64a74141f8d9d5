// Package notes formats MIDI note numbers and keeps small sets of them.
package notes

import (
	"sort"
	"strconv"
	"strings"
)

const (
	MinNote        = 0   // Minimum MIDI note value
	MaxNote        = 127 // Maximum MIDI note value
	NotesPerOctave = 12  // Number of notes in an octave
)

var pitchNames = [NotesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass returns n mod 12, always in [0, 11].
func PitchClass(n int) int {
	pc := n % NotesPerOctave
	if pc < 0 {
		pc += NotesPerOctave
	}
	return pc
}

// Octave returns floor(n/12) - 1, so that 60 is octave 4.
func Octave(n int) int {
	q := n / NotesPerOctave
	if n%NotesPerOctave < 0 {
		q--
	}
	return q - 1
}

// Name converts a MIDI note number to a pitch name plus octave, e.g. 60 -> "C4".
func Name(n int) string {
	return pitchNames[PitchClass(n)] + strconv.Itoa(Octave(n))
}

// Valid reports whether n is a MIDI note number.
func Valid(n int) bool {
	return n >= MinNote && n <= MaxNote
}

// IsAccidental reports whether n falls on a black key.
func IsAccidental(n int) bool {
	return strings.HasSuffix(pitchNames[PitchClass(n)], "#")
}

// Set is a set of note numbers. The zero value is ready to use.
type Set struct {
	m map[int]struct{}
}

// NewSet returns a set holding the given notes.
func NewSet(ns ...int) *Set {
	s := &Set{}
	for _, n := range ns {
		s.Add(n)
	}
	return s
}

// Add inserts n and reports whether it was not already present.
func (s *Set) Add(n int) bool {
	if s.m == nil {
		s.m = make(map[int]struct{})
	}
	if _, ok := s.m[n]; ok {
		return false
	}
	s.m[n] = struct{}{}
	return true
}

// Remove deletes n and reports whether it was present.
func (s *Set) Remove(n int) bool {
	if _, ok := s.m[n]; !ok {
		return false
	}
	delete(s.m, n)
	return true
}

// Contains reports whether n is in the set.
func (s *Set) Contains(n int) bool {
	_, ok := s.m[n]
	return ok
}

func (s *Set) Len() int {
	return len(s.m)
}

func (s *Set) Clear() {
	s.m = nil
}

// Sorted returns the members in ascending order.
func (s *Set) Sorted() []int {
	out := make([]int, 0, len(s.m))
	for n := range s.m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Names returns the members ascending, formatted with Name and joined by spaces.
func (s *Set) Names() string {
	sorted := s.Sorted()
	names := make([]string, len(sorted))
	for i, n := range sorted {
		names[i] = Name(n)
	}
	return strings.Join(names, " ")
}
