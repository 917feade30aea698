package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"

	"github.com/spf13/cobra"

	"github.com/roach88/paramset/internal/engine"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	DB       string
	MaxSteps int
}

// SaveResult describes one stored evaluation run.
type SaveResult struct {
	RunToken string     `json:"run_token"`
	SpecHash string     `json:"spec_hash"`
	Seq      int64      `json:"seq"`
	Params   []ParamRow `json:"params"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <specs-dir>",
		Short: "Evaluate specs and store the run",
		Long: `Evaluate every parameter declared in a specs directory and write the
resolved sets to the database as one run.

Each run gets a UUIDv7 token. Logical seqs continue from the highest seq
already stored, so runs in one database are totally ordered.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (default from config)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxSteps, "maximum parameters resolved per run")

	return cmd
}

func runSave(opts *SaveOptions, specsDir string, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		if loadResult == nil {
			code, message := parseCompileError(loadErrors[0])
			return outputCompileError(formatter, code, message, nil)
		}
		return outputCompileErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Loaded %d param(s) from %s", len(loadResult.Params), specsDir)

	st, err := openStore(cfg.DB, false)
	if err != nil {
		code, message := parseCompileError(err)
		return outputCompileError(formatter, code, message, nil)
	}
	defer st.Close()

	eng := engine.New(engine.UUIDv7Generator{},
		engine.WithStore(st),
		engine.WithMaxSteps(cfg.MaxSteps),
	)

	res, err := eng.Evaluate(cmd.Context(), loadResult.Params)
	if err != nil {
		return outputRuntimeError(formatter, err)
	}

	out := SaveResult{
		RunToken: res.Run.Token,
		SpecHash: res.Run.SpecHash,
		Seq:      res.Run.Seq,
		Params:   make([]ParamRow, len(res.Params)),
	}
	for i, p := range res.Parameters() {
		out.Params[i] = toRow(p)
	}

	return formatter.Emit(out, out.RunToken, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Stored run %s (%d param(s)) in %s\n\n", out.RunToken, len(out.Params), cfg.DB)
		for _, row := range out.Params {
			fmt.Fprintf(w, "  %-4d %s = %s\n", row.Seq, row.label(), row.Value)
		}
	})
}

// outputRuntimeError reports a failed evaluation. Engine errors carry their
// code; anything else is a storage failure.
func outputRuntimeError(formatter *OutputFormatter, err error) error {
	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		details := maps.Clone(rtErr.Details)
		if details == nil {
			details = map[string]string{}
		}
		if rtErr.Param != "" {
			details["param"] = rtErr.Param
		}
		_ = formatter.Error(string(rtErr.Code), rtErr.Error(), details)
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}
	_ = formatter.Error(ErrCodeStore, err.Error(), nil)
	return WrapExitError(ExitCommandError, "evaluation failed", err)
}
