package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNormalFormCommand creates the normalform command. It reuses
// RunOptions for the completion bounds shared with the run command.
func NewNormalFormCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalform <presentation.cue> <word>...",
		Short: "Reduce words to normal form under the completed system",
		Long: `Reduce words to normal form.

Runs completion to the configured limits first, then rewrites each
word. Normal forms are canonical class representatives only when the
run reports confluent; otherwise they are reduced words.

Example:
  kbend normalform ./examples/dihedral.cue abab bba`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalForm(cmd, opts, args[0], args[1:])
		},
	}

	cmd.Flags().DurationVar(&opts.For, "for", 0, "stop completion after this duration (0 = run to completion)")
	cmd.Flags().IntVar(&opts.MaxRules, "max-rules", 0, "stop once the active rule count exceeds this (0 = unbounded)")

	return cmd
}

func runNormalForm(cmd *cobra.Command, opts *RunOptions, path string, raw []string) error {
	if opts.Rewriter == "" {
		opts.Rewriter = "RewriteTrie"
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 128
	}
	eng, p, err := buildEngine(opts, path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if opts.For > 0 {
		err = eng.RunFor(ctx, opts.For)
	} else {
		err = eng.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("run completion: %w", err)
	}

	out := cmd.OutOrStdout()
	if !eng.Confluent() {
		fmt.Fprintln(out, "warning: system is not confluent; results are reduced words, not canonical forms")
	}
	for _, s := range raw {
		w, err := p.Names.Parse(s)
		if err != nil {
			return fmt.Errorf("parse word %q: %w", s, err)
		}
		nf, err := eng.NormalForm(w)
		if err != nil {
			return fmt.Errorf("normal form of %q: %w", s, err)
		}
		fmt.Fprintf(out, "%s -> %s\n", s, formatWord(p, nf))
	}
	return nil
}
