package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/icco/midireg/internal/registry"
	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Print the registered notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		printRegistered(cmd.OutOrStdout(), a.loadRegistry())
		return nil
	},
}

var notesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every registered note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		reg := a.loadRegistry()
		n := reg.Len()
		reg.Clear()
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d registered note(s)\n", n)
		return nil
	},
}

func init() {
	notesCmd.AddCommand(notesClearCmd)
	rootCmd.AddCommand(notesCmd)
}

func printRegistered(w io.Writer, reg *registry.Store) {
	if reg.Len() == 0 {
		fmt.Fprintln(w, "No registered notes")
		return
	}
	numbers := make([]string, 0, reg.Len())
	for _, n := range reg.Notes() {
		numbers = append(numbers, strconv.Itoa(n))
	}
	fmt.Fprintf(w, "%s\n(%s)\n", reg.Text(), strings.Join(numbers, " "))
}
