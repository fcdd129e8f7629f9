// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Each HTML form is declared in a YAML file that the owning component embeds.
//   The file defines the form’s identifier, title, sections, and fields with
//   their labels, units, help text, placeholders, and select options.  At
//   start-up the component parses its definition via Parse or LoadFS and keeps
//   the result; the renderer takes that FormDef directly, so the YAML file
//   is the single source of truth for presentation.
//
//   Validation *rules* do not live here.  The definition only carries the
//   HTML hints (required, step, min) the browser uses; the server enforces
//   its own rules on every POST.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → SectionDef → FieldDef.
//   •  Parse decodes one document and validates structural rules.
//   •  LoadFS reads one file from an fs.FS (usually an embed.FS).
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// The form is uniquely identified by ID which should be namespaced by component,
// e.g. “abalone/measurements”.  Fields are grouped into Sections, rendered in
// order as fieldsets.
type FormDef struct {
	ID       string       `yaml:"id"`       // Component-scoped identifier.
	Title    string       `yaml:"title"`    // Display title, optional.
	Submit   string       `yaml:"submit"`   // Submit button label.
	Reset    string       `yaml:"reset"`    // Reset link label, optional.
	Sections []SectionDef `yaml:"sections"` // At least one.
}

// SectionDef groups related fields under a heading.
type SectionDef struct {
	ID     string     `yaml:"id"`    // Unique per form.  If blank, we derive one.
	Title  string     `yaml:"title"` // Display heading, optional.
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control.
type FieldDef struct {
	Name        string      `yaml:"name"`        // Submission key.  Required.
	Label       string      `yaml:"label"`       // Human-readable label.  Required.
	Type        string      `yaml:"type"`        // text, number, or select.
	Units       string      `yaml:"units"`       // Appended to the label, e.g. “mm”.
	Placeholder string      `yaml:"placeholder"` // Optional placeholder text.
	Help        string      `yaml:"help"`        // Hint rendered under the control.
	Required    bool        `yaml:"required"`    // Adds the HTML required attribute.
	Step        string      `yaml:"step"`        // number only.
	Min         string      `yaml:"min"`         // number only.
	Options     []OptionDef `yaml:"options"`     // select only.
}

// OptionDef is one <option> of a select field.
type OptionDef struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// DisplayLabel returns the label with units, e.g. “Length (mm)”.
func (f FieldDef) DisplayLabel() string {
	if f.Units == "" {
		return f.Label
	}
	return f.Label + " (" + f.Units + ")"
}

// FieldNames lists every field in render order.
func (fd *FormDef) FieldNames() []string {
	var out []string
	for _, s := range fd.Sections {
		for _, f := range s.Fields {
			out = append(out, f.Name)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// Parse decodes one YAML document and validates its structure.
func Parse(raw []byte, source string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", source, err)
	}
	if err := validateFormDef(&fd, source); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadFS reads and parses path from fsys.
func LoadFS(fsys fs.FS, path string) (*FormDef, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return Parse(raw, path)
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules that cannot be expressed via YAML
// tags alone.  It returns a descriptive error referencing the source.
func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if len(fd.Sections) == 0 {
		return fmt.Errorf("form definition %s: must have 'sections'", src)
	}
	if fd.Submit == "" {
		fd.Submit = "Submit"
	}

	fieldNames := make(map[string]struct{})
	for si := range fd.Sections {
		s := &fd.Sections[si]
		if s.ID == "" {
			s.ID = fmt.Sprintf("section%d", si+1)
		}
		if len(s.Fields) == 0 {
			return fmt.Errorf("form %s: section '%s' has no fields", src, s.ID)
		}
		for fi := range s.Fields {
			if err := validateField(&s.Fields[fi], src); err != nil {
				return err
			}
			if _, dup := fieldNames[s.Fields[fi].Name]; dup {
				return fmt.Errorf("form %s: duplicate field name '%s'", src, s.Fields[fi].Name)
			}
			fieldNames[s.Fields[fi].Name] = struct{}{}
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", src, f.Name)
	}

	switch f.Type {
	case "text":
	case "number":
		for attr, v := range map[string]string{"step": f.Step, "min": f.Min} {
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("form %s: field '%s' %s %q is not a number", src, f.Name, attr, v)
			}
		}
	case "select":
		if len(f.Options) == 0 {
			return fmt.Errorf("form %s: select '%s' has no options", src, f.Name)
		}
		for _, o := range f.Options {
			if o.Value == "" {
				return errors.New("form " + src + ": select '" + f.Name + "' has an option without value")
			}
		}
	case "":
		return fmt.Errorf("form %s: field '%s' missing 'type'", src, f.Name)
	default:
		return fmt.Errorf("form %s: field '%s' unsupported type %q", src, f.Name, f.Type)
	}
	return nil
}
