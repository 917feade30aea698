package ir

import "slices"

// Ops lists every derivation operator with its argument count.
var Ops = map[string]int{
	"add":        2,
	"sub":        2,
	"mul":        2,
	"div":        2,
	"pow":        2,
	"union":      2,
	"intersect":  2,
	"difference": 2,
	"symdiff":    2,
	"neg":        1,
	"inv":        1,
	"abs":        1,
	"log":        1,
	"sin":        1,
	"round":      1,
}

// OpNames returns the operator names sorted.
func OpNames() []string {
	names := make([]string, 0, len(Ops))
	for name := range Ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
