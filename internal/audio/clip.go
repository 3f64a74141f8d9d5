// Package audio loads and plays the feedback beep.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	sampleRate = 44100
	bitDepth   = 2 // 16-bit
)

// Clip is 16-bit signed little-endian interleaved PCM.
type Clip struct {
	SampleRate   int
	ChannelCount int
	PCM          []byte
}

// Duration returns how long the clip plays.
func (c *Clip) Duration() float64 {
	frame := c.ChannelCount * bitDepth
	if frame == 0 || c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.PCM)/frame) / float64(c.SampleRate)
}

// LoadWAV reads a mono or stereo WAV file.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open beep: %w", err)
	}
	defer f.Close()

	clip, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return clip, nil
}

// DecodeWAV converts a WAV stream of any integer bit depth to a 16-bit Clip.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("error reading samples: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	if len(buf.Data) == 0 {
		return nil, fmt.Errorf("no samples")
	}

	return &Clip{
		SampleRate:   int(dec.SampleRate),
		ChannelCount: channels,
		PCM:          toPCM16(buf, int(dec.BitDepth)),
	}, nil
}

func toPCM16(buf *goaudio.IntBuffer, depth int) []byte {
	out := make([]byte, len(buf.Data)*bitDepth)
	for i, v := range buf.Data {
		var s int
		switch {
		case depth == 8:
			// 8-bit WAV is unsigned
			s = (v - 128) << 8
		case depth > 16:
			s = v >> uint(depth-16) //nolint:gosec // depth > 16
		default:
			s = v
		}
		if s > math.MaxInt16 {
			s = math.MaxInt16
		} else if s < math.MinInt16 {
			s = math.MinInt16
		}
		sample := int16(s)
		out[i*bitDepth] = byte(sample)
		out[i*bitDepth+1] = byte(sample >> 8)
	}
	return out
}
