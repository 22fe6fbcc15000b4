// Package cli implements the kbend command line: run completion over
// a CUE presentation file, reduce words to normal form, and inspect
// the Gilman graph of a completed system.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the kbend CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kbend",
		Short: "Knuth-Bendix completion for finitely presented semigroups",
		Long: `kbend runs Knuth-Bendix completion over a presentation given as a CUE
file, producing a rewriting system that decides the word problem when
completion reaches confluence.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewNormalFormCommand(opts))
	cmd.AddCommand(NewGraphCommand(opts))

	return cmd
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
