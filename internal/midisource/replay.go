package midisource

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120.0

// TimedMessage is a channel message at an offset from the start of the file.
type TimedMessage struct {
	At  time.Duration
	Msg []byte
}

// File replays the channel messages of a Standard MIDI File in real time.
// The first tempo of the file applies to the whole file.
type File struct {
	path   string
	events []TimedMessage
	speed  float64
	done   chan struct{}

	mu      sync.Mutex
	started bool
}

// LoadFile reads a Standard MIDI File. speed scales playback; 1 is real
// time and values <= 0 are treated as 1.
func LoadFile(path string, speed float64) (*File, error) {
	rd, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading MIDI file: %w", err)
	}

	ticks, ok := rd.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, fmt.Errorf("unsupported time format %v", rd.TimeFormat)
	}

	bpm := defaultBPM
	if tempoChanges := rd.TempoChanges(); len(tempoChanges) > 0 && tempoChanges[0].BPM > 0 {
		bpm = tempoChanges[0].BPM
	}
	ticksPerMinute := bpm * float64(ticks)

	var events []TimedMessage
	for _, track := range rd.Tracks {
		var currentTick uint32
		for _, ev := range track {
			currentTick += ev.Delta
			raw := []byte(ev.Message)
			if len(raw) == 0 || raw[0] < 0x80 || raw[0] >= 0xF0 {
				continue
			}
			msg := make([]byte, len(raw))
			copy(msg, raw)
			events = append(events, TimedMessage{At: tickTime(currentTick, ticksPerMinute), Msg: msg})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	if speed <= 0 {
		speed = 1
	}
	return &File{path: path, events: events, speed: speed, done: make(chan struct{})}, nil
}

func tickTime(tick uint32, ticksPerMinute float64) time.Duration {
	return time.Duration(math.Round(float64(tick) * float64(time.Minute) / ticksPerMinute))
}

// Events returns the timeline in playback order.
func (f *File) Events() []TimedMessage {
	return f.events
}

// Duration is the offset of the last message at normal speed.
func (f *File) Duration() time.Duration {
	if len(f.events) == 0 {
		return 0
	}
	return f.events[len(f.events)-1].At
}

// Done is closed when a replay reaches the end of the file.
func (f *File) Done() <-chan struct{} {
	return f.done
}

// Listen starts the replay. Only the first call plays; stop may be called
// any number of times.
func (f *File) Listen(fn func(msg []byte)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return nil, fmt.Errorf("replay of %s already started", f.path)
	}
	f.started = true

	quit := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(quit) }) }

	go func() {
		defer close(f.done)
		start := time.Now()
		for _, ev := range f.events {
			wait := time.Duration(float64(ev.At)/f.speed) - time.Since(start)
			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-quit:
					timer.Stop()
					return
				}
			}
			select {
			case <-quit:
				return
			default:
			}
			fn(ev.Msg)
		}
	}()

	return stop, nil
}

func (f *File) Close() error {
	return nil
}

func (f *File) String() string {
	return filepath.Base(f.path)
}
