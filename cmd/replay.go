package cmd

import (
	"github.com/icco/midireg/internal/midisource"
	"github.com/spf13/cobra"
)

var (
	replaySpeed float64
	replayFlags uiFlags
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.mid>",
	Short: "Visualize a Standard MIDI File as if it were played live",
	Long: `Play the notes of a Standard MIDI File through the visualizer, in real time.

Everything works as in listen: beeps, registration and the saved note list.
Only channel 1 is routed unless --any-channel is given.

Example:
  midireg replay --speed 2 --any-channel scales.mid
`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1, "playback speed multiplier")
	replayFlags.register(replayCmd)
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	// Read the file up front so a bad path fails before the UI opens.
	file, err := midisource.LoadFile(args[0], replaySpeed)
	if err != nil {
		return err
	}

	opts, beep, err := replayFlags.options(cmd, a.cfg, "🎹 MIDIREG Replay")
	if err != nil {
		return err
	}

	return a.runUI(func() (midisource.Source, error) {
		return file, nil
	}, opts, beep)
}
