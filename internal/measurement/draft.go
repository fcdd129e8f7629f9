package measurement

import (
	"net/url"
	"strings"
)

// Draft is the user-entered record.  Every value is the raw string the user
// typed; nothing is parsed until Validate or Payload runs.
type Draft struct {
	Sex           string
	Length        string
	Diameter      string
	Height        string
	WholeWeight   string
	ShuckedWeight string
	VisceraWeight string
	ShellWeight   string
}

// NewDraft returns the empty form state.  Sex starts as Infant, matching the
// first thing a sampler is likely to pick up.
func NewDraft() Draft {
	return Draft{Sex: string(Infant)}
}

// DraftFromValues builds a Draft from posted form values keyed by the
// internal field names.  Missing keys stay empty.
func DraftFromValues(v url.Values) Draft {
	var d Draft
	for _, f := range fields {
		d.Set(f.Name, strings.TrimSpace(v.Get(f.Name)))
	}
	return d
}

// Get returns the raw value of the named field, or "" for unknown names.
func (d *Draft) Get(name string) string {
	if p := d.ptr(name); p != nil {
		return *p
	}
	return ""
}

// Set stores value under the named field.  Unknown names are ignored.
func (d *Draft) Set(name, value string) {
	if p := d.ptr(name); p != nil {
		*p = value
	}
}

// Values returns the draft as a map keyed by internal name, handy for
// template prefill.
func (d Draft) Values() map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name] = d.Get(f.Name)
	}
	return out
}

func (d *Draft) ptr(name string) *string {
	switch name {
	case FieldSex:
		return &d.Sex
	case FieldLength:
		return &d.Length
	case FieldDiameter:
		return &d.Diameter
	case FieldHeight:
		return &d.Height
	case FieldWholeWeight:
		return &d.WholeWeight
	case FieldShuckedWeight:
		return &d.ShuckedWeight
	case FieldVisceraWeight:
		return &d.VisceraWeight
	case FieldShellWeight:
		return &d.ShellWeight
	}
	return nil
}
