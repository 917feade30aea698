package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramset/internal/numeric"
)

func TestSetIDDeterminism(t *testing.T) {
	rec := FromSet(numeric.MustParse("{[1, 3], [5, 7]}"))

	id1, err := SetID(rec)
	require.NoError(t, err)
	id2, err := SetID(rec)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "SetID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestSetIDEqualSetsShareID(t *testing.T) {
	// Different textual forms of the same point set.
	a := FromSet(numeric.MustParse("{[1, 3], [2, 5]}"))
	b := FromSet(numeric.MustParse("[1, 5]"))
	c := FromSet(numeric.MustParse("3 ± 2"))

	assert.Equal(t, MustSetID(a), MustSetID(b))
	assert.Equal(t, MustSetID(a), MustSetID(c))
}

func TestSetIDDistinguishesSets(t *testing.T) {
	ids := []string{
		MustSetID(FromSet(numeric.MustParse("[1, 5]"))),
		MustSetID(FromSet(numeric.MustParse("[1, 6]"))),
		MustSetID(FromSet(numeric.MustParse("[1, inf]"))),
		MustSetID(FromSet(numeric.MustParse("[-inf, 5]"))),
		MustSetID(FromSet(numeric.Empty())),
	}
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSetIDDomainSeparation(t *testing.T) {
	// The same canonical bytes under another domain must not collide.
	rec := FromSet(numeric.Empty())
	canonical, err := MarshalCanonical(rec.IRValue())
	require.NoError(t, err)

	assert.Equal(t, hashWithDomain(DomainSet, canonical), MustSetID(rec))
	assert.NotEqual(t, hashWithDomain(DomainSpec, canonical), MustSetID(rec))
}

func TestSetIDRejectsNaN(t *testing.T) {
	nan := math.NaN()
	_, err := SetID(SetRecord{Intervals: []Bounds{{Min: &nan}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SetID")

	assert.Panics(t, func() { MustSetID(SetRecord{Intervals: []Bounds{{Min: &nan}}}) })
}

func TestSpecHashOrderSensitive(t *testing.T) {
	r1 := ParamSpec{Name: "R1", Value: ptr(FromSet(numeric.MustParse("[95, 105]")))}
	r2 := ParamSpec{Name: "R2", Derive: &DeriveSpec{Op: "neg", Args: []string{"R1"}}}

	h1 := MustSpecHash([]ParamSpec{r1, r2})
	h2 := MustSpecHash([]ParamSpec{r2, r1})
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, h1, MustSpecHash([]ParamSpec{r1, r2}))
}

func TestSpecHashIgnoresSourcePosition(t *testing.T) {
	a := ParamSpec{Name: "R1", Value: ptr(FromSet(numeric.MustParse("[1, 2]"))), Line: 3, Literal: "[1, 2]"}
	b := ParamSpec{Name: "R1", Value: ptr(FromSet(numeric.MustParse("[1, 2]"))), Line: 9, Literal: "1.5 ± 0.5"}

	assert.Equal(t, MustSpecHash([]ParamSpec{a}), MustSpecHash([]ParamSpec{b}))
}

func TestSpecHashDigitsMatter(t *testing.T) {
	a := ParamSpec{Name: "x", Derive: &DeriveSpec{Op: "round", Args: []string{"y"}, Digits: 1}}
	b := ParamSpec{Name: "x", Derive: &DeriveSpec{Op: "round", Args: []string{"y"}, Digits: 2}}

	assert.NotEqual(t, MustSpecHash([]ParamSpec{a}), MustSpecHash([]ParamSpec{b}))
}

func ptr[T any](v T) *T { return &v }
