package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/icco/midireg/internal/audio"
	"github.com/icco/midireg/internal/config"
	"github.com/icco/midireg/internal/piano"
	"github.com/icco/midireg/internal/registry"
	"github.com/icco/midireg/internal/store"
	"github.com/icco/midireg/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is what every command needs: merged settings, a logger and the note store.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	logFile *os.File
}

// newApp loads the config file and applies the persistent flags on top of it.
// Interactive commands keep the terminal free of log output.
func newApp(interactive bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.Store = storePath
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	a := &app{cfg: cfg, log: logrus.New()}
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.InfoLevel
	if cfg.Log.Level != "" {
		level, err = logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	a.log.SetLevel(level)

	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		a.log.SetOutput(f)
	case interactive:
		a.log.SetOutput(io.Discard)
	default:
		a.log.SetOutput(os.Stderr)
	}
	return a, nil
}

func (a *app) Close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// openStore opens the state file. An unreadable file is reported and the
// session continues with notes kept in memory only.
func (a *app) openStore() registry.PersistentStore {
	path := a.cfg.Store
	if path == "" {
		path = store.DefaultPath()
	}
	f, err := store.Open(path)
	if err != nil {
		a.log.WithError(err).Warn("registered notes will not be saved this session")
		return store.NewMemory()
	}
	a.log.WithField("path", f.Path()).Debug("opened note store")
	return f
}

// loadRegistry loads the registered notes from the last session.
func (a *app) loadRegistry() *registry.Store {
	reg := registry.New(a.openStore(), nil, a.log)
	reg.Load()
	return reg
}

// beepSettings pick the sound played for unregistered notes.
type beepSettings struct {
	file string // WAV asset, empty for a synthesized tone
	wave audio.WaveType
}

// sound opens the beep. Any failure leaves the beep permanently silent.
func (a *app) sound(b beepSettings) piano.SoundPlayer {
	clip := audio.DefaultBeep(b.wave)
	if b.file != "" {
		loaded, err := audio.LoadWAV(b.file)
		if err != nil {
			a.log.WithError(err).Warn("beep disabled")
			return piano.Silent{}
		}
		clip = loaded
	}

	beeper, err := audio.NewBeeper(clip)
	if err != nil {
		a.log.WithError(err).Warn("beep disabled")
		return piano.Silent{}
	}
	return beeper
}

// uiFlags are shared by the commands that open the terminal UI.
type uiFlags struct {
	beepFile   string
	wave       string
	mute       bool
	anyChannel bool
	low        int
	high       int
}

func (f *uiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.beepFile, "beep", "", "WAV file played for unregistered notes (default: built-in tone)")
	cmd.Flags().StringVar(&f.wave, "wave", "", "shape of the built-in tone: square, sine, sawtooth or triangle")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "start with the beep unchecked")
	cmd.Flags().BoolVar(&f.anyChannel, "any-channel", false, "accept notes on every MIDI channel, velocity 0 releasing the key")
	cmd.Flags().IntVar(&f.low, "low", 0, "lowest key drawn (default 48, C3)")
	cmd.Flags().IntVar(&f.high, "high", 0, "highest key drawn (default 71, B4)")
}

func (f *uiFlags) options(cmd *cobra.Command, cfg *config.Config, title string) (tui.Options, beepSettings, error) {
	var beep beepSettings

	beep.file = cfg.Beep
	if cmd.Flags().Changed("beep") {
		beep.file = f.beepFile
	}
	waveName := cfg.BeepWave
	if cmd.Flags().Changed("wave") {
		waveName = f.wave
	}
	wave, err := audio.ParseWave(waveName)
	if err != nil {
		return tui.Options{}, beep, err
	}
	beep.wave = wave

	kb := piano.DefaultKeyboard
	if cfg.Keys.Low != nil {
		kb.Low = *cfg.Keys.Low
	}
	if cfg.Keys.High != nil {
		kb.High = *cfg.Keys.High
	}
	if cmd.Flags().Changed("low") {
		kb.Low = f.low
	}
	if cmd.Flags().Changed("high") {
		kb.High = f.high
	}
	if kb.Low < 0 || kb.High > 127 || kb.Low > kb.High {
		return tui.Options{}, beep, fmt.Errorf("invalid key range %d..%d", kb.Low, kb.High)
	}

	opts := tui.Options{
		Title:      title,
		Keyboard:   &kb,
		Beep:       cfg.BeepOn(),
		AnyChannel: cfg.AnyChannel,
	}
	if cmd.Flags().Changed("mute") {
		opts.Beep = !f.mute
	}
	if cmd.Flags().Changed("any-channel") {
		opts.AnyChannel = f.anyChannel
	}
	return opts, beep, nil
}

// runUI runs the terminal UI until the user quits.
func (a *app) runUI(connect tui.Connector, opts tui.Options, beep beepSettings) error {
	opts.Log = a.log
	m := tui.New(a.loadRegistry(), a.sound(beep), connect, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.SetProgram(p) // Store reference so MIDI callbacks can send messages

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	defer close(done)
	go func() {
		select {
		case <-c:
			p.Send(tea.Quit())
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
