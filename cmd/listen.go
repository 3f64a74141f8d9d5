package cmd

import (
	"github.com/icco/midireg/internal/midisource"
	"github.com/spf13/cobra"
)

var (
	deviceName  string
	listenFlags uiFlags
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Visualize a connected MIDI keyboard",
	Long: `Open the first available MIDI input and show the keys being played.

Unregistered notes beep. Press r to start registration: every note you play is then
registered, saved, and drawn in its own color. Press r again to stop, c to clear.

Example:
  midireg listen --device "Digital Piano" --beep short-beep.wav
`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().StringVarP(&deviceName, "device", "d", "", "MIDI input to open (substring of its name, default: first input)")
	listenFlags.register(listenCmd)
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	defer midisource.CloseDriver()

	device := a.cfg.Device
	if cmd.Flags().Changed("device") {
		device = deviceName
	}

	opts, beep, err := listenFlags.options(cmd, a.cfg, "🎹 MIDIREG")
	if err != nil {
		return err
	}

	return a.runUI(func() (midisource.Source, error) {
		return midisource.OpenInput(device)
	}, opts, beep)
}
