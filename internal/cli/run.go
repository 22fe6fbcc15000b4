package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kbend/internal/compiler"
	"github.com/roach88/kbend/internal/kb"
	"github.com/roach88/kbend/internal/present"
	"github.com/roach88/kbend/internal/rewrite"
	"github.com/roach88/kbend/internal/store"
	"github.com/roach88/kbend/internal/words"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database        string
	For             time.Duration
	MaxRules        int
	MaxOverlap      int
	BatchSize       int
	Rewriter        string
	ByOverlapLength bool
	Report          time.Duration
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <presentation.cue>",
		Short: "Run Knuth-Bendix completion over a presentation",
		Long: `Run Knuth-Bendix completion over a presentation.

Completion may not terminate for every presentation; bound it with
--for, --max-rules, or --max-overlap. The resulting rule system and
counters are printed, and snapshotted to SQLite when --db is given.

Example:
  kbend run ./examples/dihedral.cue --for 5s
  kbend run ./examples/free.cue --db ./runs.db --max-rules 1000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run snapshots")
	cmd.Flags().DurationVar(&opts.For, "for", 0, "stop after this duration (0 = run to completion)")
	cmd.Flags().IntVar(&opts.MaxRules, "max-rules", 0, "stop once the active rule count exceeds this (0 = unbounded)")
	cmd.Flags().IntVar(&opts.MaxOverlap, "max-overlap", 0, "skip overlaps longer than this (0 = unbounded)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", kb.DefaultBatchSize, "pending rules per batch flush")
	cmd.Flags().StringVar(&opts.Rewriter, "rewriter", string(rewrite.RewriteTrie), "match strategy (RewriteTrie|RewriteFromLeft)")
	cmd.Flags().BoolVar(&opts.ByOverlapLength, "by-overlap-length", false, "drive completion in rounds of increasing overlap length")
	cmd.Flags().DurationVar(&opts.Report, "report-every", 0, "log progress at this interval")

	return cmd
}

func runCompletion(cmd *cobra.Command, opts *RunOptions, path string) error {
	eng, p, err := buildEngine(opts, path)
	if err != nil {
		return err
	}
	if opts.Report > 0 {
		eng.ReportEvery(opts.Report)
	}

	ctx := cmd.Context()
	start := time.Now()
	switch {
	case opts.ByOverlapLength:
		err = eng.RunByOverlapLength(ctx)
	case opts.For > 0:
		err = eng.RunFor(ctx, opts.For)
	default:
		err = eng.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("run completion: %w", err)
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "state:        %s (%s)\n", eng.State(), eng.StopReason())
	fmt.Fprintf(out, "confluent:    %t\n", eng.Confluent())
	fmt.Fprintf(out, "active rules: %d\n", eng.NumberOfActiveRules())
	fmt.Fprintf(out, "total rules:  %d\n", eng.TotalRulesCreated())
	fmt.Fprintf(out, "overlaps:     %d\n", eng.OverlapsExamined())
	fmt.Fprintf(out, "elapsed:      %s\n", elapsed.Round(time.Millisecond))
	for _, rule := range eng.ActiveRules() {
		fmt.Fprintf(out, "  %s -> %s\n", formatWord(p, rule[0]), formatWord(p, rule[1]))
	}

	if opts.Database != "" {
		id, err := snapshotRun(cmd, eng, p, opts.Database)
		if err != nil {
			return err
		}
		slog.Info("run snapshotted", "db", opts.Database, "run_id", id)
	}
	return nil
}

func buildEngine(opts *RunOptions, path string) (*kb.Engine, *present.Presentation, error) {
	slog.Info("compiling presentation", "path", path)
	p, err := compiler.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("compile presentation: %w", err)
	}
	slog.Info("presentation compiled",
		"alphabet", p.Names.String(),
		"relations", len(p.Relations),
	)

	strategy, err := rewrite.ParseStrategy(opts.Rewriter)
	if err != nil {
		return nil, nil, err
	}
	engOpts := []kb.EngineOption{
		kb.WithRewriter(strategy),
		kb.WithBatchSize(opts.BatchSize),
	}
	if opts.MaxRules > 0 {
		engOpts = append(engOpts, kb.WithMaxRules(opts.MaxRules))
	}
	if opts.MaxOverlap > 0 {
		engOpts = append(engOpts, kb.WithMaxOverlap(opts.MaxOverlap))
	}

	eng, err := kb.New(p, engOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("seed engine: %w", err)
	}
	return eng, p, nil
}

func snapshotRun(cmd *cobra.Command, eng *kb.Engine, p *present.Presentation, dbPath string) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	snap := &store.Snapshot{
		Alphabet:       p.Names.String(),
		State:          eng.State().String(),
		StopReason:     eng.StopReason().String(),
		Confluent:      eng.ConfluentKnown() && eng.Confluent(),
		ConfluentKnown: eng.ConfluentKnown(),
		ActiveRules:    eng.NumberOfActiveRules(),
		InactiveRules:  eng.NumberOfInactiveRules(),
		TotalRules:     eng.TotalRulesCreated(),
		Overlaps:       eng.OverlapsExamined(),
	}
	for _, rule := range eng.ActiveRules() {
		snap.Rules = append(snap.Rules, store.SnapshotRule{
			LHS: formatWord(p, rule[0]),
			RHS: formatWord(p, rule[1]),
		})
	}
	return st.SaveSnapshot(cmd.Context(), snap)
}

func formatWord(p *present.Presentation, w words.Word) string {
	if len(w) == 0 {
		return "(empty)"
	}
	return p.Names.Format(w)
}
