package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/paramset/internal/engine"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	DB  string
	Run string
}

// VerifyResult is the JSON form of a verification report.
type VerifyResult struct {
	RunToken   string           `json:"run_token"`
	OK         bool             `json:"ok"`
	Checked    int              `json:"checked"`
	Mismatches []VerifyMismatch `json:"mismatches"`
	Corrupt    []string         `json:"corrupt"`
}

// VerifyMismatch is one derived parameter that no longer re-derives.
type VerifyMismatch struct {
	Param      string `json:"param"`
	Op         string `json:"op"`
	Stored     string `json:"stored"`
	Recomputed string `json:"recomputed"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-derive a stored run and check it matches",
		Long: `Reload a stored run, check every set against its content address, and
recompute every derived parameter from its stored arguments.

Exits 1 if any set is corrupt or any derivation no longer matches.
Without --run the most recent run is verified.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (default from config)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run token (default: latest run)")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
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
	token := opts.Run
	if token == "" {
		run, err := st.LatestRun(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return outputCompileError(formatter, ErrCodeNotFound, "no runs stored", nil)
		}
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
		}
		token = run.Token
	}
	formatter.VerboseLog("Verifying run %s", token)

	eng := engine.New(engine.UUIDv7Generator{}, engine.WithStore(st))
	report, err := eng.Verify(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return outputCompileError(formatter, ErrCodeNotFound, fmt.Sprintf("run not found: %s", token), nil)
	}
	if err != nil {
		return outputRuntimeError(formatter, err)
	}

	result := VerifyResult{
		RunToken:   report.RunToken,
		OK:         report.OK(),
		Checked:    report.Checked,
		Mismatches: make([]VerifyMismatch, len(report.Mismatches)),
		Corrupt:    report.Corrupt,
	}
	for i, m := range report.Mismatches {
		result.Mismatches[i] = VerifyMismatch(m)
	}

	if err := outputVerify(formatter, result); err != nil {
		return err
	}
	if !result.OK {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s failed verification", token))
	}
	return nil
}

func outputVerify(formatter *OutputFormatter, result VerifyResult) error {
	return formatter.Emit(result, result.RunToken, func(w io.Writer) {
		if result.OK {
			fmt.Fprintf(w, "✓ Run %s verified (%d derived param(s))\n", result.RunToken, result.Checked)
			return
		}
		fmt.Fprintf(w, "✗ Run %s failed verification\n\n", result.RunToken)
		for _, name := range result.Corrupt {
			fmt.Fprintf(w, "  %s: stored set does not match its set_id\n", name)
		}
		for _, m := range result.Mismatches {
			fmt.Fprintf(w, "  %s = %s: stored %s, recomputed %s\n", m.Param, m.Op, m.Stored, m.Recomputed)
		}
	})
}
