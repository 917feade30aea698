package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const circuitSpec = `package test

param: {
	V: {range: [10, 20], unit: "V"}
	R: {range: "[2, 5]", unit: "ohm"}
	I: {derive: {op: "div", args: ["V", "R"]}, unit: "A"}
	P: {derive: {op: "mul", args: ["V", "I"]}, unit: "W"}
}
`

// writeSpecs writes one CUE file into a fresh directory and returns it.
func writeSpecs(t *testing.T, spec string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spec.cue"), []byte(spec), 0o644))
	return dir
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// saveCircuit stores one run of circuitSpec and returns the database path.
func saveCircuit(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")
	_, err := execute(t, NewSaveCommand(&RootOptions{Format: "text"}), "--db", db, writeSpecs(t, circuitSpec))
	require.NoError(t, err)
	return db
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
