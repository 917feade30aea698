package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/paramset/internal/numeric"
	"github.com/roach88/paramset/internal/queryir"
	"github.com/roach88/paramset/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	DB       string
	Run      string
	Latest   bool
	ListRuns bool
	Name     string
	Unit     string
	Contains string
	Overlaps string
	Within   string
	Limit    int
}

// QueryResult holds the parameters matched by a query.
type QueryResult struct {
	Run    string     `json:"run,omitempty"`
	Params []ParamRow `json:"params"`
}

// RunRow is the display form of one stored run.
type RunRow struct {
	Token    string `json:"token"`
	SpecHash string `json:"spec_hash"`
	Seq      int64  `json:"seq"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Search stored parameters by name, unit or range",
		Long: `Search stored parameters.

Filters combine with AND. Range filters take a single interval literal:
  --contains 5          sets holding the value 5
  --overlaps "[90, 100]" sets sharing a point with [90, 100]
  --within "[0, 10]"    sets entirely inside [0, 10]

Without --run or --latest every stored run is searched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (default from config)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "restrict to one run token")
	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "restrict to the most recent run")
	cmd.Flags().BoolVar(&opts.ListRuns, "runs", false, "list stored runs instead of parameters")
	cmd.Flags().StringVar(&opts.Name, "name", "", "parameter name")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "unit label")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "value the set must hold")
	cmd.Flags().StringVar(&opts.Overlaps, "overlaps", "", "interval the set must meet")
	cmd.Flags().StringVar(&opts.Within, "within", "", "interval the set must fit in")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum rows (0 = no limit)")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg)

	st, err := openStore(cfg.DB, true)
	if err != nil {
		code, message := parseCompileError(err)
		return outputCompileError(formatter, code, message, nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.ListRuns {
		return listRuns(ctx, st, formatter)
	}

	sel, err := buildSelect(opts, cmd)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	if opts.Latest {
		run, err := st.LatestRun(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return outputCompileError(formatter, ErrCodeNotFound, "no runs stored", nil)
		}
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
		}
		sel.Run = run.Token
	}
	formatter.VerboseLog("Query: %+v", sel)

	params, err := st.QueryParameters(ctx, sel)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	result := QueryResult{Run: sel.Run, Params: make([]ParamRow, len(params))}
	for i, p := range params {
		result.Params[i] = toRow(p)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if len(result.Params) == 0 {
		fmt.Fprintln(formatter.Writer, "No matching parameters.")
		return nil
	}
	for _, row := range result.Params {
		fmt.Fprintf(formatter.Writer, "%s  %-4d %s = %s\n", shortToken(row.RunToken), row.Seq, row.label(), row.Value)
	}
	return nil
}

// buildSelect turns the filter flags into a query. Range flags are parsed
// with the set literal grammar so "inf" bounds work as expected.
func buildSelect(opts *QueryOptions, cmd *cobra.Command) (queryir.Select, error) {
	var preds []queryir.Predicate

	if cmd.Flags().Changed("name") {
		preds = append(preds, queryir.NameEquals{Name: opts.Name})
	}
	if cmd.Flags().Changed("unit") {
		preds = append(preds, queryir.UnitEquals{Unit: opts.Unit})
	}
	if cmd.Flags().Changed("contains") {
		v, err := strconv.ParseFloat(strings.TrimSpace(opts.Contains), 64)
		if err != nil {
			return queryir.Select{}, fmt.Errorf("--contains: %q is not a number", opts.Contains)
		}
		preds = append(preds, queryir.Contains{Value: v})
	}
	if cmd.Flags().Changed("overlaps") {
		iv, err := numeric.ParseInterval(opts.Overlaps)
		if err != nil {
			return queryir.Select{}, fmt.Errorf("--overlaps: %w", err)
		}
		preds = append(preds, queryir.Overlaps{Min: iv.Min(), Max: iv.Max()})
	}
	if cmd.Flags().Changed("within") {
		iv, err := numeric.ParseInterval(opts.Within)
		if err != nil {
			return queryir.Select{}, fmt.Errorf("--within: %w", err)
		}
		preds = append(preds, queryir.Within{Min: iv.Min(), Max: iv.Max()})
	}

	sel := queryir.Select{Run: opts.Run, Limit: opts.Limit}
	switch len(preds) {
	case 0:
	case 1:
		sel.Filter = preds[0]
	default:
		sel.Filter = queryir.And{Predicates: preds}
	}

	if result := queryir.Validate(sel); !result.IsValid {
		return queryir.Select{}, fmt.Errorf("invalid query: %s", strings.Join(result.Problems, "; "))
	}
	return sel, nil
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	rows := make([]RunRow, len(runs))
	for i, r := range runs {
		rows[i] = RunRow{Token: r.Token, SpecHash: r.SpecHash, Seq: r.Seq}
	}

	if formatter.Format == "json" {
		return formatter.Success(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs stored.")
		return nil
	}
	for _, r := range rows {
		fmt.Fprintf(formatter.Writer, "%-4d %s  spec %s\n", r.Seq, r.Token, shortToken(r.SpecHash))
	}
	return nil
}

func shortToken(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
