package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kbend/internal/gilman"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph <presentation.cue>",
		Short: "Build the Gilman graph of the completed system",
		Long: `Build the Gilman graph: the automaton accepting exactly the
irreducible words. The presented semigroup is finite exactly when the
graph is acyclic. The graph is only reliable once completion reports
confluent; the command warns otherwise.

Example:
  kbend graph ./examples/dihedral.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.For, "for", 0, "stop completion after this duration (0 = run to completion)")
	cmd.Flags().IntVar(&opts.MaxRules, "max-rules", 0, "stop once the active rule count exceeds this (0 = unbounded)")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *RunOptions, path string) error {
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
		fmt.Fprintln(out, "warning: system is not confluent; the graph may not recognize the normal forms")
	}

	g := gilman.Build(eng.Store(), p.Alphabet)
	fmt.Fprintf(out, "nodes: %d\n", g.NumberOfNodes())
	fmt.Fprintf(out, "edges: %d\n", g.NumberOfEdges())
	if size := g.Size(); size == gilman.Infinite {
		fmt.Fprintln(out, "size:  infinite")
	} else {
		if !p.ContainsEmptyWord {
			size--
		}
		fmt.Fprintf(out, "size:  %d\n", size)
	}

	labels := g.NodeLabels()
	for id, label := range labels {
		fmt.Fprintf(out, "  node %d: %s\n", id, formatWord(p, label))
	}
	return nil
}
