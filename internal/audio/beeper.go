package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

type voice interface {
	Pause()
}

type backend interface {
	start(r io.Reader) voice
}

type otoBackend struct {
	ctx *oto.Context
}

func (b otoBackend) start(r io.Reader) voice {
	p := b.ctx.NewPlayer(r)
	p.Play()
	return p
}

// Beeper plays one clip. Play restarts the clip from the beginning, cutting
// off a beep that is still sounding.
type Beeper struct {
	mu      sync.Mutex
	clip    *Clip
	backend backend
	current voice
}

// NewBeeper opens the audio device for the clip's format. Only one Beeper
// may exist per process, since oto allows a single context.
func NewBeeper(clip *Clip) (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   clip.SampleRate,
		ChannelCount: clip.ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-readyChan

	return &Beeper{clip: clip, backend: otoBackend{ctx: otoCtx}}, nil
}

func (b *Beeper) Play() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current != nil {
		b.current.Pause()
	}
	b.current = b.backend.start(bytes.NewReader(b.clip.PCM))
}
