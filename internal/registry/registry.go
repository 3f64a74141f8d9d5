// Package registry holds the notes the player has registered as known.
// Registered notes are silenced and drawn differently on the keyboard.
package registry

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/icco/midireg/internal/notes"
	"github.com/sirupsen/logrus"
)

// EntryName is the persisted entry holding the registered notes as a JSON array.
const EntryName = "registeredNotes"

// PersistentStore keeps named values across sessions.
type PersistentStore interface {
	Get(name string) (string, bool)
	Set(name, value string) error
	Delete(name string) error
}

// Display shows the registered notes as text.
type Display interface {
	ShowRegistered(text string)
}

// Store is the set of registered notes, mirrored to a PersistentStore.
type Store struct {
	notes   notes.Set
	persist PersistentStore
	display Display
	log     logrus.FieldLogger
}

// New returns an empty store. Call Load to pick up a previous session.
// display may be nil.
func New(persist PersistentStore, display Display, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		persist: persist,
		display: display,
		log:     log.WithField("component", "registry"),
	}
}

// SetDisplay replaces the display and refreshes it.
func (s *Store) SetDisplay(d Display) {
	s.display = d
	s.refresh()
}

// Add registers note. Adding a note twice or a note outside 0..127 changes nothing.
func (s *Store) Add(note int) bool {
	if !notes.Valid(note) {
		s.log.WithField("note", note).Warn("ignoring out of range note")
		return false
	}
	if !s.notes.Add(note) {
		return false
	}
	s.log.WithField("note", notes.Name(note)).Debug("registered note")
	s.Persist()
	s.refresh()
	return true
}

// Clear drops every registered note and the persisted entry.
func (s *Store) Clear() {
	s.notes.Clear()
	if err := s.persist.Delete(EntryName); err != nil {
		s.log.WithError(err).Warn("failed to delete persisted notes")
	}
	s.refresh()
}

func (s *Store) Contains(note int) bool {
	return s.notes.Contains(note)
}

func (s *Store) Len() int {
	return s.notes.Len()
}

// Notes returns the registered notes in ascending order.
func (s *Store) Notes() []int {
	return s.notes.Sorted()
}

// Text is what the display shows: ascending note names joined by spaces.
func (s *Store) Text() string {
	return s.notes.Names()
}

// Load replaces the set with the persisted entry. A missing or unparseable
// entry leaves the set empty.
func (s *Store) Load() {
	s.notes.Clear()
	defer s.refresh()

	raw, ok := s.persist.Get(EntryName)
	if !ok {
		return
	}
	loaded, err := Decode(raw)
	if err != nil {
		s.log.WithError(err).WithField("value", raw).Warn("skipping unparseable persisted notes")
		return
	}
	for _, n := range loaded {
		s.notes.Add(n)
	}
	s.log.WithField("count", s.notes.Len()).Debug("loaded registered notes")
}

// Persist writes the set to the store. Failures are logged, not returned.
func (s *Store) Persist() {
	if err := s.persist.Set(EntryName, Encode(s.notes.Sorted())); err != nil {
		s.log.WithError(err).Warn("failed to persist registered notes")
	}
}

func (s *Store) refresh() {
	if s.display != nil {
		s.display.ShowRegistered(s.notes.Names())
	}
}

// Encode renders notes as a JSON array of integers.
func Encode(ns []int) string {
	if ns == nil {
		ns = []int{}
	}
	data, _ := json.Marshal(ns)
	return string(data)
}

// Decode parses a JSON array of notes. Elements may be numbers or numeric
// strings; elements that are not integral MIDI note numbers are dropped.
func Decode(raw string) ([]int, error) {
	var values []interface{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}

	out := make([]int, 0, len(values))
	for _, v := range values {
		n, ok := coerce(v)
		if !ok || !notes.Valid(n) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func coerce(v interface{}) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}
