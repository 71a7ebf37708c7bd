package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/join"
	"github.com/roach88/finrel/internal/store"
)

// JoinOptions holds flags for the join command.
type JoinOptions struct {
	*RootOptions
	Algorithm string
	Backend   string
	DB        string
}

// JoinResult is the join command's output.
type JoinResult struct {
	Functions []string `json:"functions"`
	Algorithm string   `json:"algorithm,omitempty"`
	Backend   string   `json:"backend"`
	Count     int      `json:"count"`
	Tuples    [][]int  `json:"tuples"`
}

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JoinOptions{RootOptions: rootOpts}

	cmd := queryCommand(&cobra.Command{
		Use:   "join <specs-dir> <function>...",
		Short: "Join named functions over their shared codomain",
		Long: `Compute the limit of functions into a common codomain: every tuple
(x1, ..., xn) with f1(x1) = ... = fn(xn).

The memory backend runs one of the in-process algorithms. The sqlite
backend loads the functions as tables and runs the equivalent SQL.

Examples:
  finrel join ./specs f g
  finrel join ./specs f g h --algorithm sort-merge
  finrel join ./specs f g --backend sqlite --db relations.db`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(cmd.Context(), opts, args[0], args[1:], cmd)
		},
	})

	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "auto", "nested-loop|sort-merge|hash|auto (memory backend)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "memory", "memory|sqlite")
	cmd.Flags().StringVar(&opts.DB, "db", ":memory:", "SQLite database path (sqlite backend)")

	return cmd
}

func runJoin(ctx context.Context, opts *JoinOptions, specsDir string, names []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if ctx == nil {
		ctx = context.Background()
	}

	alg, err := join.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return commandError(formatter, ErrCodeQuery, err.Error())
	}
	if opts.Backend != "memory" && opts.Backend != "sqlite" {
		return commandError(formatter, ErrCodeQuery, fmt.Sprintf("unknown backend %q: must be memory or sqlite", opts.Backend))
	}

	specs, err := loadForQuery(formatter, specsDir)
	if err != nil {
		return err
	}
	fs := make([]finset.Function, len(names))
	for i, name := range names {
		f, err := specs.Function(name)
		if err != nil {
			return commandError(formatter, ErrCodeUnknownName, err.Error())
		}
		fs[i] = f
	}

	result := JoinResult{Functions: names, Backend: opts.Backend}
	var tuples []join.Tuple
	if opts.Backend == "sqlite" {
		tuples, err = sqliteJoin(ctx, opts, fs)
	} else {
		result.Algorithm = alg.String()
		var cone *join.Cone
		cone, err = join.Limit(fs, alg)
		if cone != nil {
			tuples = cone.Tuples()
		}
	}
	if err != nil {
		return queryError(formatter, err)
	}
	opts.logger().Debug("join complete", "functions", names, "backend", opts.Backend, "tuples", len(tuples))

	result.Count = len(tuples)
	result.Tuples = make([][]int, len(tuples))
	for i, t := range tuples {
		result.Tuples[i] = t
	}
	return formatter.Emit(result)
}

func sqliteJoin(ctx context.Context, opts *JoinOptions, fs []finset.Function) ([]join.Tuple, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Join(ctx, fs)
}
