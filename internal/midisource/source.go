// Package midisource delivers raw MIDI messages from a hardware input or a
// Standard MIDI File.
package midisource

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Status texts shown to the user.
const (
	StatusConnected   = "MIDI connected"
	StatusUnavailable = "MIDI not available"
)

// Source produces MIDI messages. fn is called from the source's own
// goroutine; the slice is not reused after the call.
type Source interface {
	Listen(fn func(msg []byte)) (stop func(), err error)
	Close() error
	String() string
}

// skipPatterns name system ports that are never picked automatically.
var skipPatterns = []string{"Midi Through", "Through Port"}

// Inputs lists the names of the available MIDI inputs.
func Inputs() []string {
	var names []string
	for _, in := range midi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

// Port is a hardware (or virtual) MIDI input.
type Port struct {
	in drivers.In
}

// OpenInput opens the first input whose name contains device. With an empty
// device it takes the first input, preferring real devices over loopback ports.
func OpenInput(device string) (*Port, error) {
	ins := midi.GetInPorts()
	if len(ins) == 0 {
		return nil, fmt.Errorf("no MIDI inputs found")
	}

	in := pickInput(ins, device)
	if in == nil {
		return nil, fmt.Errorf("no MIDI input matching %q", device)
	}

	if !in.IsOpen() {
		if err := in.Open(); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", in.String(), err)
		}
	}
	return &Port{in: in}, nil
}

func pickInput(ins []drivers.In, device string) drivers.In {
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	idx := pickName(names, device)
	if idx < 0 {
		return nil
	}
	return ins[idx]
}

func pickName(names []string, device string) int {
	if device != "" {
		want := strings.ToLower(device)
		for i, name := range names {
			if strings.Contains(strings.ToLower(name), want) {
				return i
			}
		}
		return -1
	}

	for i, name := range names {
		if !skipped(name) {
			return i
		}
	}
	if len(names) > 0 {
		return 0
	}
	return -1
}

func skipped(name string) bool {
	for _, p := range skipPatterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func (p *Port) Listen(fn func(msg []byte)) (func(), error) {
	stop, err := p.in.Listen(func(data []byte, timestamp int32) {
		if len(data) < 1 {
			return
		}
		msg := make([]byte, len(data))
		copy(msg, data)
		fn(msg)
	}, drivers.ListenConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to listen to MIDI port: %w", err)
	}
	return stop, nil
}

func (p *Port) Close() error {
	return p.in.Close()
}

func (p *Port) String() string {
	return p.in.String()
}

// CloseDriver releases the MIDI driver. Call once on exit.
func CloseDriver() {
	midi.CloseDriver()
}
