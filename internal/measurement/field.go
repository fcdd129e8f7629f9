// internal/measurement/field.go
//
// Abalone – measurement field table.
//
// Context
//   The form, the validator, and the outbound API payload all speak about the
//   same eight fields, but under two spellings.  The browser form (and every
//   error map) uses the internal names, e.g. “Whole_weight”.  The prediction
//   API expects the dataset column names, e.g. “Whole weight”.  This file is
//   the single, ordered lookup between the two.  Nothing is derived from
//   naming conventions, so renaming a field here is the only change needed.
//
//------------------------------------------------------------------------------

package measurement

// Sex is the categorical input.  The dataset encodes it as one letter.
type Sex string

const (
	Male   Sex = "M"
	Female Sex = "F"
	Infant Sex = "I" // infant / immature
)

// Valid reports whether s is one of M, F, or I.
func (s Sex) Valid() bool {
	switch s {
	case Male, Female, Infant:
		return true
	}
	return false
}

// Field describes one measurement.
type Field struct {
	Name    string // form key and error-map key
	Wire    string // key in the prediction API body
	Numeric bool   // false only for Sex
}

// Internal field names.
const (
	FieldSex           = "Sex"
	FieldLength        = "Length"
	FieldDiameter      = "Diameter"
	FieldHeight        = "Height"
	FieldWholeWeight   = "Whole_weight"
	FieldShuckedWeight = "Shucked_weight"
	FieldVisceraWeight = "Viscera_weight"
	FieldShellWeight   = "Shell_weight"
)

// fields is ordered the way the API documents its body.
var fields = []Field{
	{Name: FieldSex, Wire: "Sex"},
	{Name: FieldLength, Wire: "Length", Numeric: true},
	{Name: FieldDiameter, Wire: "Diameter", Numeric: true},
	{Name: FieldHeight, Wire: "Height", Numeric: true},
	{Name: FieldWholeWeight, Wire: "Whole weight", Numeric: true},
	{Name: FieldShuckedWeight, Wire: "Shucked weight", Numeric: true},
	{Name: FieldVisceraWeight, Wire: "Viscera weight", Numeric: true},
	{Name: FieldShellWeight, Wire: "Shell weight", Numeric: true},
}

// Fields returns a copy of the field table in canonical order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the Field for an internal name.
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// order returns the table position of name, or len(fields) when unknown.
func order(name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return len(fields)
}
