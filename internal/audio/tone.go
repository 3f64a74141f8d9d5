package audio

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WaveType is the oscillator shape of a synthesized beep.
type WaveType int

const (
	WaveSquare WaveType = iota
	WaveSine
	WaveSawtooth
	WaveTriangle
)

var waveNames = map[WaveType]string{
	WaveSquare:   "square",
	WaveSine:     "sine",
	WaveSawtooth: "sawtooth",
	WaveTriangle: "triangle",
}

func (w WaveType) String() string {
	if name, ok := waveNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WaveType(%d)", int(w))
}

// ParseWave maps a shape name to its WaveType. The empty string is a square.
func ParseWave(name string) (WaveType, error) {
	if name == "" {
		return WaveSquare, nil
	}
	for w, n := range waveNames {
		if strings.EqualFold(n, name) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown wave %q (want square, sine, sawtooth or triangle)", name)
}

// at returns the oscillator value in -1..1 at phase 0..1.
func (w WaveType) at(phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 0.8
		}
		return -0.8
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Tone renders a mono beep with a short attack and release so it does not click.
func Tone(freq float64, d time.Duration, wave WaveType, volume float64) *Clip {
	numSamples := int(d.Seconds() * sampleRate)
	pcm := make([]byte, numSamples*bitDepth)
	ramp := sampleRate / 200 // 5ms

	phase := 0.0
	for i := 0; i < numSamples; i++ {
		env := 1.0
		if i < ramp {
			env = float64(i) / float64(ramp)
		} else if remaining := numSamples - i; remaining < ramp {
			env = float64(remaining) / float64(ramp)
		}

		sample := wave.at(phase) * env * volume
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		v := int16(sample * 32767)
		pcm[i*bitDepth] = byte(v)
		pcm[i*bitDepth+1] = byte(v >> 8)

		phase += freq / sampleRate
		if phase >= 1.0 {
			phase -= 1.0
		}
	}

	return &Clip{SampleRate: sampleRate, ChannelCount: 1, PCM: pcm}
}

// DefaultBeep is used when no beep file is configured: 120ms of A5.
func DefaultBeep(wave WaveType) *Clip {
	return Tone(NoteFreq(81), 120*time.Millisecond, wave, 0.3)
}

// NoteFreq converts a MIDI note number to frequency in Hz
func NoteFreq(note int) float64 {
	// A4 (note 69) = 440 Hz
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}
