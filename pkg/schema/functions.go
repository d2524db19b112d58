package schema

import (
	"sort"

	"github.com/leapstack-labs/leapmeta/pkg/core"
)

// FunctionInfo describes a computed-field function.
type FunctionInfo struct {
	Name    string
	Massive bool
	accepts func(core.Variant) bool
}

// Accepts reports whether the function can read a source of variant v.
func (fi FunctionInfo) Accepts(v core.Variant) bool { return fi.accepts(v) }

func anyVariant(core.Variant) bool { return true }

func numeric(v core.Variant) bool {
	return v == core.INT || v == core.LONG || v == core.NUMERIC
}

func text(v core.Variant) bool { return v.IsText() }

var functions = map[string]FunctionInfo{
	"length": {Name: "length", accepts: text},
	"upper":  {Name: "upper", accepts: text},
	"lower":  {Name: "lower", accepts: text},
	"isnull": {Name: "isnull", accepts: anyVariant},
	"count":  {Name: "count", Massive: true, accepts: anyVariant},
	"sum":    {Name: "sum", Massive: true, accepts: numeric},
	"min":    {Name: "min", Massive: true, accepts: core.Variant.IsComparable},
	"max":    {Name: "max", Massive: true, accepts: core.Variant.IsComparable},
}

// LookupFunction returns the computed-field function with the given name.
func LookupFunction(name string) (FunctionInfo, bool) {
	fi, ok := functions[name]
	return fi, ok
}

// Functions returns the known function names (sorted).
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
