package ir

import (
	"slices"
	"unicode/utf16"
)

// IRValue is a sealed interface over the value types that may appear in
// canonical JSON: IRNull, IRString, IRInt, IRFloat, IRBool, IRArray and
// IRObject.
type IRValue interface {
	irValue()
}

// IRNull encodes an absent bound. In a Bounds record it stands for an
// infinite endpoint.
type IRNull struct{}

func (IRNull) irValue() {}

type IRString string

func (IRString) irValue() {}

type IRInt int64

func (IRInt) irValue() {}

// IRFloat is a finite float64. NaN and ±Inf are rejected at marshal time.
type IRFloat float64

func (IRFloat) irValue() {}

type IRBool bool

func (IRBool) irValue() {}

type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject maps keys to values. Use SortedKeys for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go string comparison orders by UTF-8 bytes, which differs for
// characters outside the BMP.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Strings converts a string slice into an IRArray.
func Strings(ss []string) IRArray {
	arr := make(IRArray, len(ss))
	for i, s := range ss {
		arr[i] = IRString(s)
	}
	return arr
}
