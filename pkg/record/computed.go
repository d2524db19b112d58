package record

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leapmeta/pkg/core"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// Computed is a read-only container for a derived projection over another
// field of the same record. It occupies no column and is never stored.
type Computed struct {
	_   noCompare
	rec *Record
	c   *schema.Computed
}

// ComputedField binds a computed member by name.
func ComputedField(rec *Record, name string) (Computed, error) {
	c, ok := rec.table.ComputedByName(name)
	if !ok {
		be := &core.BindError{Type: rec.table.ShortName(), Field: name, Want: "FUNC"}
		if f, isField := rec.table.FieldByName(name); isField {
			be.Got = f.Variant()
		}
		return Computed{}, be
	}
	return Computed{rec: rec, c: c}, nil
}

// Owner returns the record the projection reads.
func (c Computed) Owner() *Record { return c.rec }

// Descriptor returns the computed member descriptor.
func (c Computed) Descriptor() *schema.Computed { return c.c }

// Variant is always FUNC.
func (c Computed) Variant() core.Variant { return core.FUNC }

// Function returns the function name.
func (c Computed) Function() string { return c.c.Function() }

// Massive reports whether the function aggregates over many records.
func (c Computed) Massive() bool { return c.c.Massive() }

// Source returns the container the projection reads.
func (c Computed) Source() Container {
	return base{rec: c.rec, f: c.c.Source()}
}

func (c Computed) String() string {
	return c.c.String()
}

// Value evaluates a row function (length, upper, lower, isnull) against the
// source. Null propagates, except through isnull. The source is marked read.
func (c Computed) Value() (any, error) {
	if c.c.Massive() {
		return nil, fmt.Errorf("%s.%s is an aggregate over many records", c.rec.table.ShortName(), c.c.Name())
	}
	v := c.rec.get(c.c.Source().Index())
	if c.c.Function() == "isnull" {
		return v == nil, nil
	}
	if v == nil {
		return nil, nil
	}
	switch c.c.Function() {
	case "length":
		return int64(utf8.RuneCountInString(v.(string))), nil
	case "upper":
		return strings.ToUpper(v.(string)), nil
	case "lower":
		return strings.ToLower(v.(string)), nil
	default:
		return nil, fmt.Errorf("function %s is not a row function", c.c.Function())
	}
}

// Aggregate evaluates a massive function (count, sum, min, max) over the source
// column of records, each of which must be of the declaring type or a subtype.
// count returns int64; sum returns int64 for INT and LONG and float64 for
// NUMERIC; min and max return the slot value. Functions other than count
// return nil when every value is null.
func (c Computed) Aggregate(records []*Record) (any, error) {
	if !c.c.Massive() {
		return nil, fmt.Errorf("%s.%s is not an aggregate", c.rec.table.ShortName(), c.c.Name())
	}
	src := c.c.Source()
	values := make([]any, 0, len(records))
	for _, r := range records {
		if !r.table.IsA(c.c.Owner()) {
			return nil, &core.TargetError{Field: c.rec.table.ShortName() + "." + c.c.Name(), Want: c.c.Owner(), Got: r.table.Name()}
		}
		if v := r.get(src.Index()); v != nil {
			values = append(values, v)
		}
	}

	switch c.c.Function() {
	case "count":
		return int64(len(values)), nil
	case "sum":
		if len(values) == 0 {
			return nil, nil
		}
		return sum(src.Variant(), values), nil
	case "min", "max":
		if len(values) == 0 {
			return nil, nil
		}
		best := values[0]
		for _, v := range values[1:] {
			d := compareValues(v, best)
			if (c.c.Function() == "min" && d < 0) || (c.c.Function() == "max" && d > 0) {
				best = v
			}
		}
		return best, nil
	default:
		return nil, fmt.Errorf("function %s is not an aggregate", c.c.Function())
	}
}

func sum(v core.Variant, values []any) any {
	if v == core.NUMERIC {
		var total float64
		for _, x := range values {
			total += x.(float64)
		}
		return total
	}
	var total int64
	for _, x := range values {
		switch n := x.(type) {
		case int32:
			total += int64(n)
		case int64:
			total += n
		}
	}
	return total
}
