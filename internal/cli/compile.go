package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/paramset/internal/compiler"
	"github.com/roach88/paramset/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the compiled parameter declarations.
type CompilationResult struct {
	SpecHash string         `json:"spec_hash"`
	Params   []ir.ParamSpec `json:"params"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	ParamCount   int
	LiteralCount int
	DerivedCount int
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE parameter specs to IR",
		Long: `Compile CUE parameter declarations to their IR form.

Every literal is parsed into a normalized set, every derivation is checked
against the operator table, and the declaration list is identified by its
spec hash.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(cmd, cfg)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := parseCompileError(loadErrors[0])
		return outputCompileError(formatter, code, message, nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)
	for _, p := range loadResult.Params {
		formatter.VerboseLog("Compiling param: %s", p.Name)
	}

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	// Structural problems (unknown ops, cycles) fail compilation too.
	if verrs := compiler.Validate(loadResult.Params); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = &LoadError{Code: v.Code, Message: fmt.Sprintf("%s: %s", v.Field, v.Message)}
		}
		return outputCompileErrors(formatter, errs)
	}

	hash, err := ir.SpecHash(loadResult.Params)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	result := &CompilationResult{SpecHash: hash, Params: loadResult.Params}

	if opts.Output != "" {
		if err := writeIRToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, calculateStats(result), opts.Output)
}

func calculateStats(result *CompilationResult) CompilationStats {
	stats := CompilationStats{ParamCount: len(result.Params)}
	for _, p := range result.Params {
		if p.Derive != nil {
			stats.DerivedCount++
		} else {
			stats.LiteralCount++
		}
	}
	return stats
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, stats CompilationStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d param(s): %d literal, %d derived\n\n",
		stats.ParamCount, stats.LiteralCount, stats.DerivedCount)

	for _, p := range result.Params {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", paramLabel(p), describeSpec(p))
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "spec hash: %s\n", result.SpecHash)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote IR to %s\n", outputFile)
	}
	return nil
}

func paramLabel(p ir.ParamSpec) string {
	if p.Unit == "" {
		return p.Name
	}
	return fmt.Sprintf("%s [%s]", p.Name, p.Unit)
}

// describeSpec renders a declaration as "{[a, b]}" or "op(x, y)".
func describeSpec(p ir.ParamSpec) string {
	if p.Derive != nil {
		call := fmt.Sprintf("%s(%s)", p.Derive.Op, strings.Join(p.Derive.Args, ", "))
		if p.Derive.Op == "round" && p.Derive.Digits != 0 {
			call += fmt.Sprintf(" digits=%d", p.Derive.Digits)
		}
		return call
	}
	if p.Value == nil {
		return "<none>"
	}
	set, err := p.Value.ToSet()
	if err != nil {
		return "<invalid>"
	}
	return set.Exact()
}

func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeIRToFile writes indented JSON. Canonical JSON is only used for hashing.
func writeIRToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
