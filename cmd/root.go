package cmd

import (
	"fmt"
	"os"

	"github.com/icco/midireg/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	storePath  string
	logFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "midireg",
	Short: "A terminal MIDI keyboard visualizer with note registration",
	Long: `midireg listens to a MIDI keyboard, lights up the keys you play and beeps for
notes you have not registered yet.

Register notes you already know and they turn silent and change color. The registered
notes are saved and come back the next time you start midireg.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "file holding the registered notes")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}
