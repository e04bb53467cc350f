// Package series holds the data types shared by the chart engine: axis
// values, data points and series kinds.
package series

import (
	"math"
	"strconv"
)

// Value is one datum on an axis: a category label or a number.
//
// Values are comparable, so they can key maps when collecting the distinct
// categories of an axis.
type Value struct {
	Str     string
	Num     float64
	Numeric bool
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{Num: f, Numeric: true}
}

// Category returns a label Value.
func Category(s string) Value {
	return Value{Str: s}
}

// Float returns the numeric reading of v.
//
// Labels that parse as numbers are converted; other labels are NaN.
func (v Value) Float() float64 {
	if v.Numeric {
		return v.Num
	}
	f, err := strconv.ParseFloat(v.Str, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// String renders v without trailing zeros.
func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// Point is one element of a series.
//
// Fields carries any extra columns of the source row; they are passed
// through to hover payloads untouched.
type Point struct {
	X, Y   Value
	Fields map[string]any
}

// Kind is the chart type of a series.
type Kind string

const (
	Bar          Kind = "bar"
	Line         Kind = "line"
	Scatter      Kind = "scatter"
	ScatterPoint Kind = "scatterPoint" // scatter points placed on a map
	Treemap      Kind = "treemaps"
	Pie          Kind = "pie"
	Relation     Kind = "relation"
)

var kinds = map[Kind]struct{}{
	Bar: {}, Line: {}, Scatter: {}, ScatterPoint: {},
	Treemap: {}, Pie: {}, Relation: {},
}

// ParseKind validates a chart type name.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := kinds[k]
	return k, ok
}

// UsesXAxis reports whether series of this kind contribute values to the
// X axis they reference.
func (k Kind) UsesXAxis() bool {
	switch k {
	case Bar, Line, Scatter, ScatterPoint, Treemap:
		return true
	default:
		return false
	}
}

// UsesYAxis reports whether series of this kind contribute values to the
// Y axis they reference.
func (k Kind) UsesYAxis() bool {
	switch k {
	case Bar, Line, Scatter, ScatterPoint:
		return true
	default:
		return false
	}
}
