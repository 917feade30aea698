package queryir

// Query is a sealed interface over query shapes. Select is the only one.
type Query interface {
	queryNode()
}

// Predicate is a sealed interface over filter conditions on one stored
// parameter.
type Predicate interface {
	predicateNode()
}

// Select returns the parameters of one run that satisfy Filter, ordered by
// evaluation seq and then name.
//
//	Select{
//	  Run:    "0192f0c4-...",
//	  Filter: And{Predicates: []Predicate{
//	    UnitEquals{Unit: "ohm"},
//	    Overlaps{Min: 90, Max: 100},
//	  }},
//	}
//
// An empty Run selects from every stored run. A nil Filter selects all
// parameters. Limit <= 0 means no limit.
type Select struct {
	Run    string
	Filter Predicate
	Limit  int
}

func (Select) queryNode() {}

// NameEquals matches the parameter with the given name.
type NameEquals struct {
	Name string
}

func (NameEquals) predicateNode() {}

// UnitEquals matches parameters carrying the given unit label.
// Units are opaque; "ohm" and "Ω" are different units.
type UnitEquals struct {
	Unit string
}

func (UnitEquals) predicateNode() {}

// Contains matches parameters whose set holds Value.
type Contains struct {
	Value float64
}

func (Contains) predicateNode() {}

// Overlaps matches parameters whose set shares at least one point with
// [Min, Max].
type Overlaps struct {
	Min float64
	Max float64
}

func (Overlaps) predicateNode() {}

// Within matches parameters whose set is a subset of [Min, Max].
type Within struct {
	Min float64
	Max float64
}

func (Within) predicateNode() {}

// And matches when all Predicates match. An empty And matches everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
