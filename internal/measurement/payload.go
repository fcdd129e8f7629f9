package measurement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDraft is returned by Payload when the draft fails Validate.
var ErrInvalidDraft = errors.New("measurement: draft is not valid")

// Payload is a validated draft converted to the prediction API's types.
// Values are keyed by internal field name; MarshalJSON renames them.
type Payload struct {
	Sex    Sex
	values map[string]float64
}

// Payload converts a draft that has passed Validate.  Drafts that fail are
// rejected with ErrInvalidDraft instead of being half-converted.
func (d Draft) Payload() (Payload, error) {
	if errs := Validate(d); !errs.Valid() {
		return Payload{}, fmt.Errorf("%w: %d field(s)", ErrInvalidDraft, len(errs))
	}

	p := Payload{
		Sex:    Sex(strings.TrimSpace(d.Get(FieldSex))),
		values: make(map[string]float64, len(fields)-1),
	}
	for _, f := range fields {
		if !f.Numeric {
			continue
		}
		v, ok := parseNumber(strings.TrimSpace(d.Get(f.Name)))
		if !ok {
			return Payload{}, fmt.Errorf("%w: %s is not a number", ErrInvalidDraft, f.Name)
		}
		p.values[f.Name] = v
	}
	return p, nil
}

// Value returns the numeric value for an internal field name.
func (p Payload) Value(name string) float64 { return p.values[name] }

// MarshalJSON writes the body in field-table order with API key names:
//
//	{"Sex":"M","Length":0.455,…,"Whole weight":0.514,…}
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Wire)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if f.Numeric {
			val, err = json.Marshal(p.values[f.Name])
		} else {
			val, err = json.Marshal(string(p.Sex))
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
