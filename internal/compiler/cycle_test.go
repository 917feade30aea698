package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/ir"
)

func TestAnalyzeCyclesAcyclic(t *testing.T) {
	specs := []ir.ParamSpec{
		literal("V", "[4, 6]"),
		literal("R", "[1, 2]"),
		derived("I", "div", "V", "R"),
		derived("P", "mul", "V", "I"),
	}

	warnings := AnalyzeCycles(specs)
	assert.NotNil(t, warnings)
	assert.Empty(t, warnings)
}

func TestAnalyzeCyclesSelfLoop(t *testing.T) {
	warnings := AnalyzeCycles([]ir.ParamSpec{derived("x", "abs", "x")})

	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"x", "x"}, warnings[0].Path)
	assert.Equal(t, "error", warnings[0].Level)
}

func TestAnalyzeCyclesThreeNodes(t *testing.T) {
	specs := []ir.ParamSpec{
		literal("seed", "[1, 2]"),
		derived("a", "add", "seed", "c"),
		derived("b", "neg", "a"),
		derived("c", "abs", "b"),
	}

	warnings := AnalyzeCycles(specs)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "c", "b", "a"}, warnings[0].Path)
	assert.Equal(t, "dependency cycle: a → c → b → a", warnings[0].Message)
}

func TestAnalyzeCyclesShortestPath(t *testing.T) {
	// a→b→a and a→c→d→a share a; the reported path is the shortest loop.
	specs := []ir.ParamSpec{
		derived("a", "add", "c", "b"),
		derived("b", "neg", "a"),
		derived("c", "neg", "d"),
		derived("d", "neg", "a"),
	}

	warnings := AnalyzeCycles(specs)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"a", "b", "a"}, warnings[0].Path)
}

func TestAnalyzeCyclesSeparateComponents(t *testing.T) {
	specs := []ir.ParamSpec{
		derived("p", "neg", "q"),
		derived("q", "neg", "p"),
		literal("free", "1"),
		derived("x", "neg", "y"),
		derived("y", "neg", "x"),
	}

	warnings := AnalyzeCycles(specs)
	require.Len(t, warnings, 2)
	assert.Equal(t, "p", warnings[0].Path[0])
	assert.Equal(t, "x", warnings[1].Path[0])
}

func TestAnalyzeCyclesIgnoresUndefinedArgs(t *testing.T) {
	warnings := AnalyzeCycles([]ir.ParamSpec{derived("a", "neg", "ghost")})
	assert.Empty(t, warnings)
}
