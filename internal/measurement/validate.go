// internal/measurement/validate.go
//
// Abalone – draft validation.
//
// Context
//   Validate is the gate in front of the prediction API.  It never returns a
//   Go error: field problems are data the page renders next to each input.
//   Rules run in a fixed order and a later rule replaces an earlier message
//   for the same field, so Height can carry either the positivity message or
//   the geometry message, never both.
//
// Rules
//   1. Empty field                 → required.
//   2. Sex outside M/F/I           → bad option.
//   3. Numeric field not a number  → not a number.
//   4. Numeric field ≤ 0           → must be positive.
//   5. Height ≥ Diameter           → on Height.
//   6. Shucked ≥ Whole weight      → on Shucked_weight.
//
//------------------------------------------------------------------------------

package measurement

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// User-facing messages.
const (
	MsgRequired       = "This field is required"
	MsgBadSex         = "Value must be one of M, F, or I"
	MsgNotNumber      = "Value must be a number"
	MsgNotPositive    = "Value must be greater than 0"
	MsgHeightDiameter = "Height should be less than diameter for abalone"
	MsgShuckedWhole   = "Shucked weight should be less than whole weight"
)

// Errors maps a field name to its message.  An empty map means the draft can
// be submitted.
type Errors map[string]string

// Valid reports whether no field carries an error.
func (e Errors) Valid() bool { return len(e) == 0 }

// Fields returns the names that carry errors in field-table order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out
}

// Validate checks d and returns every field problem it finds.
func Validate(d Draft) Errors {
	errs := make(Errors)
	parsed := make(map[string]float64, len(fields))

	for _, f := range fields {
		raw := strings.TrimSpace(d.Get(f.Name))
		if raw == "" {
			errs[f.Name] = MsgRequired
			continue
		}
		if !f.Numeric {
			if !Sex(raw).Valid() {
				errs[f.Name] = MsgBadSex
			}
			continue
		}

		v, ok := parseNumber(raw)
		if !ok {
			errs[f.Name] = MsgNotNumber
			continue
		}
		parsed[f.Name] = v
		if v <= 0 {
			errs[f.Name] = MsgNotPositive
		}
	}

	if lessThan(parsed, FieldHeight, FieldDiameter) == broken {
		errs[FieldHeight] = MsgHeightDiameter
	}
	if lessThan(parsed, FieldShuckedWeight, FieldWholeWeight) == broken {
		errs[FieldShuckedWeight] = MsgShuckedWhole
	}
	return errs
}

type relation int

const (
	skipped relation = iota // one side missing or unparsable
	holds
	broken
)

// lessThan compares parsed[small] < parsed[big] when both sides parsed.
func lessThan(parsed map[string]float64, small, big string) relation {
	s, ok1 := parsed[small]
	b, ok2 := parsed[big]
	if !ok1 || !ok2 {
		return skipped
	}
	if s >= b {
		return broken
	}
	return holds
}

// parseNumber accepts finite decimal numbers only.  NaN and ±Inf parse in
// strconv but are not measurements.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
